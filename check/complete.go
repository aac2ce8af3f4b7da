// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package check

import (
	"strings"

	"github.com/gogpu/glsles/glsl"
)

// ItemKind classifies a completion item.
type ItemKind uint8

const (
	ItemVariable ItemKind = iota
	ItemFunction
	ItemType
	ItemField
	ItemSwizzle
)

// String returns the kind name.
func (k ItemKind) String() string {
	switch k {
	case ItemFunction:
		return "function"
	case ItemType:
		return "type"
	case ItemField:
		return "field"
	case ItemSwizzle:
		return "swizzle"
	default:
		return "variable"
	}
}

// Item is a completion candidate.
type Item struct {
	Label  string
	Kind   ItemKind
	Detail string
}

// Complete lists the completion candidates at a byte offset of a checked
// unit. After `base.` it offers the fields or swizzle components of base;
// anywhere else it offers every name in scope.
func Complete(unit *glsl.TranslationUnit, info *Info, offset int) []Item {
	if m := memberAt(unit, offset); m != nil {
		return memberItems(m)
	}
	return scopeItems(info, offset)
}

// memberAt finds the member access whose '.' precedes offset.
func memberAt(unit *glsl.TranslationUnit, offset int) *glsl.MemberExpr {
	path := glsl.Path(unit, offset)
	for i := len(path) - 1; i >= 0; i-- {
		m, ok := path[i].(*glsl.MemberExpr)
		if ok && offset > m.X.Pos().End.Offset {
			return m
		}
	}
	return nil
}

func memberItems(m *glsl.MemberExpr) []Item {
	base := m.X.ResolvedType()
	if base == nil {
		return nil
	}
	var items []Item
	switch base.Kind {
	case glsl.TypeStruct:
		for _, f := range base.Fields {
			items = append(items, Item{Label: f.Name, Kind: ItemField, Detail: f.Type.String()})
		}
	case glsl.TypeVector:
		scalar := glsl.ScalarOf(base.Scalar).String()
		for _, set := range swizzleSets {
			if m.Member != "" && strings.IndexByte(set, m.Member[0]) < 0 {
				continue
			}
			for _, comp := range set[:base.Length] {
				items = append(items, Item{Label: string(comp), Kind: ItemSwizzle, Detail: scalar})
			}
		}
	}
	return items
}

func scopeItems(info *Info, offset int) []Item {
	var items []Item
	seen := make(map[string]bool)
	add := func(it Item) {
		if !seen[it.Label] {
			seen[it.Label] = true
			items = append(items, it)
		}
	}

	// Only names declared before the cursor are visible, in every scope
	// of the chain.
	for s := info.Globals.Innermost(offset); s != nil; s = s.Parent {
		for _, sym := range s.Symbols {
			if !sym.Span.IsBuiltin() && sym.Span.Start.Offset >= offset {
				continue
			}
			add(symbolItem(sym))
		}
	}

	cat := info.Catalogue()
	for _, name := range cat.FunctionNames() {
		var sigs []string
		for _, f := range cat.Overloads(name) {
			if f.Stages.Has(info.Stage) {
				sigs = append(sigs, f.String())
			}
		}
		if len(sigs) > 0 {
			add(Item{Label: name, Kind: ItemFunction, Detail: strings.Join(sigs, "\n")})
		}
	}
	for _, d := range cat.Types {
		add(Item{Label: d.Name, Kind: ItemType, Detail: d.Type.Kind.String()})
	}
	return items
}

func symbolItem(sym *Symbol) Item {
	switch sym.Kind {
	case SymbolFunction:
		sigs := make([]string, len(sym.Overloads))
		for i, o := range sym.Overloads {
			sigs[i] = o.Return.String() + " " + o.Signature
		}
		return Item{Label: sym.Name, Kind: ItemFunction, Detail: strings.Join(sigs, "\n")}
	case SymbolType:
		return Item{Label: sym.Name, Kind: ItemType, Detail: "struct"}
	}
	detail := sym.Type.String()
	if q := sym.Qualifier.String(); q != "" {
		detail = q + " " + detail
	}
	return Item{Label: sym.Name, Kind: ItemVariable, Detail: detail}
}
