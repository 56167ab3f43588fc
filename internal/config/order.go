package config

import (
	"github.com/pelletier/go-toml/v2/unstable"
)

const patternsTable = "patterns"

// patternOrder returns the category keys of the [patterns] table in the order
// they appear in data. Standard tables, dotted keys and inline tables are all
// recognised.
func patternOrder(data []byte) ([]string, error) {
	var (
		parser unstable.Parser
		table  []string
		order  []string
	)
	seen := map[string]struct{}{}
	add := func(category string) {
		if _, ok := seen[category]; ok {
			return
		}
		seen[category] = struct{}{}
		order = append(order, category)
	}

	parser.Reset(data)
	for parser.NextExpression() {
		expr := parser.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
			if expr.Kind == unstable.Table && len(table) == 2 && table[0] == patternsTable {
				add(table[1])
			}
		case unstable.KeyValue:
			full := append(append([]string(nil), table...), keyParts(expr.Key())...)
			switch {
			case len(full) >= 2 && full[0] == patternsTable:
				add(full[1])
			case len(full) == 1 && full[0] == patternsTable && expr.Value().Kind == unstable.InlineTable:
				children := expr.Value().Children()
				for children.Next() {
					child := children.Node()
					if child.Kind != unstable.KeyValue {
						continue
					}
					if parts := keyParts(child.Key()); len(parts) > 0 {
						add(parts[0])
					}
				}
			}
		}
	}
	if err := parser.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
