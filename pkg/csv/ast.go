package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ToAST converts the table to an AST: an *ast.ArrayDataNode of records, each
// an *ast.ArrayDataNode of *ast.LiteralNode string values. When the table
// captures headers the header record comes first. Records parsed from text
// carry the position of their first character.
func (t *Table) ToAST() *ast.ArrayDataNode {
	records := make([]ast.SchemaNode, 0, len(t.rows)+1)
	if t.HasHeaders() && t.headers.Len() > 0 {
		records = append(records, recordNode(t.Headers(), ast.ZeroPosition()))
	}
	for _, row := range t.rows {
		pos := ast.ZeroPosition()
		if row.line > 0 {
			pos = ast.NewPosition(row.offset, row.line, 1)
		}
		records = append(records, recordNode(row.values, pos))
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition())
}

func recordNode(values []string, pos ast.Position) *ast.ArrayDataNode {
	fields := make([]ast.SchemaNode, len(values))
	for i, v := range values {
		fields[i] = ast.NewLiteralNode(v, pos)
	}
	return ast.NewArrayDataNode(fields, pos)
}

// RecordsFromAST extracts the raw records of an AST produced by ToAST or by
// any shape-core parser using the same layout.
func RecordsFromAST(node ast.SchemaNode) ([][]string, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	records := make([][]string, 0, arrayNode.Len())
	for _, elem := range arrayNode.Elements() {
		recordNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected record to be *ast.ArrayDataNode, got %T", elem)
		}

		fields := make([]string, 0, recordNode.Len())
		for _, fieldNode := range recordNode.Elements() {
			literalNode, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("expected field to be *ast.LiteralNode, got %T", fieldNode)
			}
			value, ok := literalNode.Value().(string)
			if !ok {
				return nil, fmt.Errorf("expected field value to be string, got %T", literalNode.Value())
			}
			fields = append(fields, value)
		}
		records = append(records, fields)
	}
	return records, nil
}

// FromAST builds a Table from an AST. With header capture enabled the first
// record names the columns.
func FromAST(node ast.SchemaNode, opts Options) (*Table, error) {
	records, err := RecordsFromAST(node)
	if err != nil {
		return nil, err
	}
	t, err := NewTable(opts, nil)
	if err != nil {
		return nil, err
	}
	for _, fields := range records {
		t.AddRow(fields)
	}
	return t, nil
}
