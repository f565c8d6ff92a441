package logging

import (
	"log/slog"
	"slices"
)

// boundAttr is an attribute from WithAttrs together with the groups that
// were open when it was bound.
type boundAttr struct {
	groups []string
	attr   slog.Attr
}

// attrChain carries the state accumulated through WithAttrs and WithGroup
// for handlers that render records themselves.
type attrChain struct {
	bound  []boundAttr
	groups []string
}

func (c attrChain) with(attrs []slog.Attr) attrChain {
	bound := slices.Clip(c.bound)
	for _, a := range attrs {
		bound = append(bound, boundAttr{groups: c.groups, attr: a})
	}
	return attrChain{bound: bound, groups: c.groups}
}

func (c attrChain) group(name string) attrChain {
	if name == "" {
		return c
	}
	return attrChain{bound: c.bound, groups: append(slices.Clip(c.groups), name)}
}

// module returns the top-level "module" attribute bound by GetLogger.
func (c attrChain) module(r slog.Record) string {
	module := "app"
	for _, b := range c.bound {
		if len(b.groups) == 0 && b.attr.Key == "module" {
			module = b.attr.Value.String()
		}
	}
	if len(c.groups) == 0 {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "module" {
				module = a.Value.String()
			}
			return true
		})
	}
	return module
}

// each calls fn for every attribute except the top-level "module", bound
// attributes first, then the record's.
func (c attrChain) each(r slog.Record, fn func(groups []string, a slog.Attr)) {
	for _, b := range c.bound {
		if len(b.groups) == 0 && b.attr.Key == "module" {
			continue
		}
		fn(b.groups, b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		if len(c.groups) == 0 && a.Key == "module" {
			return true
		}
		fn(c.groups, a)
		return true
	})
}
