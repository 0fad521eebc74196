// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package command

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"unicode"
)

// Option configures introspection of a single command.
type Option func(*options)

type options struct {
	name        string
	description string
	category    string
	parent      string
	aliases     []string
	paramNames  []string
	defaults    map[string]any
}

// WithName overrides the command name derived from the function identifier.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDescription sets the one-line description shown by help and completion.
func WithDescription(desc string) Option {
	return func(o *options) { o.description = desc }
}

// WithCategory assigns the command to a help category.
func WithCategory(category string) Option {
	return func(o *options) { o.category = category }
}

// WithParent makes the command a subcommand of the named command. The parent
// must already be registered when this command is added to a registry;
// dispatch then resolves "parent child args..." by walking the tree.
func WithParent(name string) Option {
	return func(o *options) { o.parent = name }
}

// WithAliases adds alternative names the registry resolves to this command.
func WithAliases(aliases ...string) Option {
	return func(o *options) { o.aliases = append(o.aliases, aliases...) }
}

// WithParams names the positional parameters, in declaration order.
// Unnamed positionals fall back to arg1, arg2, and so on.
func WithParams(names ...string) Option {
	return func(o *options) { o.paramNames = names }
}

// WithDefault gives the named positional parameter a default value, making it
// optional. The value's type must match the parameter's declared type.
func WithDefault(name string, value any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(map[string]any)
		}
		o.defaults[name] = value
	}
}

// Introspect builds a Command descriptor from a function value.
//
// Leading parameters are positional. If the final parameter is a struct, its
// exported fields become the command's flags: bool fields are presence-only
// switches, pointer fields are optional with a nil absent-sentinel, a
// `default:"..."` tag makes a field optional with that value, and everything
// else is required. Flag names derive from the field name (or a `flag:"..."`
// tag) with camelCase and underscores mapped to hyphens.
//
// Introspection only builds the descriptor; it does not register it.
func Introspect(fn any, opts ...Option) (*Command, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, &SignatureError{Command: o.name, Reason: "not a function"}
	}
	t := v.Type()

	name := o.name
	if name == "" {
		name = kebab(funcName(v))
	}
	if name == "" {
		return nil, &SignatureError{Command: name, Reason: "command name cannot be empty"}
	}

	if t.IsVariadic() {
		return nil, &SignatureError{Command: name, Reason: "variadic functions are not supported"}
	}
	hasOutput, hasErr, err := checkResults(name, t)
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		Name:        name,
		Description: o.description,
		Category:    o.category,
		Parent:      o.parent,
		Aliases:     o.aliases,
		fn:          v,
		hasOutput:   hasOutput,
		hasErr:      hasErr,
	}

	numIn := t.NumIn()
	posCount := numIn
	if numIn > 0 && t.In(numIn-1).Kind() == reflect.Struct {
		posCount = numIn - 1
		cmd.flagsType = t.In(numIn - 1)
	}

	if len(o.paramNames) > posCount {
		return nil, &SignatureError{Command: name, Reason: fmt.Sprintf(
			"%d parameter names given for %d positional parameters", len(o.paramNames), posCount)}
	}

	seen := make(map[string]bool)
	for i := 0; i < posCount; i++ {
		pname := fmt.Sprintf("arg%d", i+1)
		if i < len(o.paramNames) {
			pname = o.paramNames[i]
		}
		if seen[pname] {
			return nil, &SignatureError{Command: name, Reason: fmt.Sprintf("duplicate parameter name %q", pname)}
		}
		seen[pname] = true

		kind, optional, ok := scalarKind(t.In(i))
		if !ok {
			return nil, &UnsupportedTypeError{Command: name, Param: pname, Type: t.In(i)}
		}
		p := Param{Name: pname, Kind: kind, Optional: optional, Required: !optional}
		if def, hasDef := o.defaults[pname]; hasDef {
			if err := checkDefault(name, pname, kind, optional, def); err != nil {
				return nil, err
			}
			p.Required = false
			p.Default = def
		}
		cmd.Params = append(cmd.Params, p)
		delete(o.defaults, pname)
	}
	for leftover := range o.defaults {
		return nil, &SignatureError{Command: name, Reason: fmt.Sprintf("default for unknown parameter %q", leftover)}
	}

	// Once a positional is optional, everything after it must be too.
	optionalSeen := false
	for _, p := range cmd.Params {
		if !p.Required {
			optionalSeen = true
		} else if optionalSeen {
			return nil, &SignatureError{Command: name, Reason: fmt.Sprintf(
				"required parameter %q follows an optional parameter", p.Name)}
		}
	}

	if cmd.flagsType != nil {
		flags, fields, err := introspectFlags(name, cmd.flagsType, seen)
		if err != nil {
			return nil, err
		}
		cmd.Params = append(cmd.Params, flags...)
		cmd.flagField = fields
	}

	return cmd, nil
}

// MustIntrospect is Introspect that panics on error. Used during
// initialization where a bad signature is a programming bug.
func MustIntrospect(fn any, opts ...Option) *Command {
	cmd, err := Introspect(fn, opts...)
	if err != nil {
		panic(fmt.Sprintf("introspect failed: %v", err))
	}
	return cmd
}

func introspectFlags(cmdName string, ft reflect.Type, seen map[string]bool) ([]Param, map[string]int, error) {
	var flags []Param
	fields := make(map[string]int)

	for i := 0; i < ft.NumField(); i++ {
		f := ft.Field(i)
		if !f.IsExported() {
			continue
		}
		fname := f.Tag.Get("flag")
		if fname == "-" {
			continue
		}
		if fname == "" {
			fname = kebab(f.Name)
		}
		if seen[fname] {
			return nil, nil, &SignatureError{Command: cmdName, Reason: fmt.Sprintf("duplicate parameter name %q", fname)}
		}
		seen[fname] = true

		kind, optional, ok := scalarKind(f.Type)
		if !ok {
			return nil, nil, &UnsupportedTypeError{Command: cmdName, Param: fname, Type: f.Type}
		}

		p := Param{Name: fname, Kind: kind, Flag: true, Optional: optional}
		switch {
		case kind == KindBool:
			// Presence-only switch: always optional, never takes a value.
			p.Default = false
		case optional:
			// nil absent-sentinel
		default:
			if tag, hasTag := f.Tag.Lookup("default"); hasTag {
				def, err := parseDefaultTag(cmdName, fname, kind, tag)
				if err != nil {
					return nil, nil, err
				}
				p.Default = def
			} else {
				p.Required = true
			}
		}
		flags = append(flags, p)
		fields[fname] = i
	}
	return flags, fields, nil
}

func parseDefaultTag(cmdName, pname string, kind Kind, tag string) (any, error) {
	switch kind {
	case KindString:
		return tag, nil
	case KindInt:
		n, err := strconv.Atoi(tag)
		if err != nil {
			return nil, &SignatureError{Command: cmdName, Reason: fmt.Sprintf(
				"flag %q: invalid int default %q", pname, tag)}
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(tag, 64)
		if err != nil {
			return nil, &SignatureError{Command: cmdName, Reason: fmt.Sprintf(
				"flag %q: invalid float default %q", pname, tag)}
		}
		return f, nil
	}
	return nil, &SignatureError{Command: cmdName, Reason: fmt.Sprintf(
		"flag %q: default tag not allowed for %s", pname, kind)}
}

func checkDefault(cmdName, pname string, kind Kind, optional bool, def any) error {
	if optional {
		return &SignatureError{Command: cmdName, Reason: fmt.Sprintf(
			"parameter %q is pointer-typed and cannot also carry a default", pname)}
	}
	okType := false
	switch kind {
	case KindString:
		_, okType = def.(string)
	case KindInt:
		_, okType = def.(int)
	case KindFloat:
		_, okType = def.(float64)
	case KindBool:
		_, okType = def.(bool)
	}
	if !okType {
		return &SignatureError{Command: cmdName, Reason: fmt.Sprintf(
			"default for %q has type %T, want %s", pname, def, kind)}
	}
	return nil
}

// scalarKind maps a declared Go type onto the supported parameter kinds.
// A pointer to a supported scalar means "optional-of" that kind.
func scalarKind(t reflect.Type) (kind Kind, optional bool, ok bool) {
	if t.Kind() == reflect.Ptr {
		k, innerOpt, innerOK := scalarKind(t.Elem())
		if !innerOK || innerOpt {
			return 0, false, false
		}
		return k, true, true
	}
	switch t.Kind() {
	case reflect.String:
		return KindString, false, true
	case reflect.Int:
		return KindInt, false, true
	case reflect.Float64:
		return KindFloat, false, true
	case reflect.Bool:
		return KindBool, false, true
	}
	return 0, false, false
}

func checkResults(cmdName string, t reflect.Type) (hasOutput, hasErr bool, err error) {
	errType := reflect.TypeOf((*error)(nil)).Elem()
	switch t.NumOut() {
	case 0:
		return false, false, nil
	case 1:
		if t.Out(0) == errType {
			return false, true, nil
		}
		return true, false, nil
	case 2:
		if t.Out(1) != errType {
			return false, false, &SignatureError{Command: cmdName,
				Reason: "second return value must be error"}
		}
		return true, true, nil
	}
	return false, false, &SignatureError{Command: cmdName, Reason: "too many return values"}
}

// funcName extracts the bare identifier of a function value, e.g.
// "github.com/x/y.AddUser" -> "AddUser". Method values lose their "-fm"
// suffix. Anonymous functions yield names like "func1"; callers normally
// override those with WithName.
func funcName(v reflect.Value) string {
	pc := v.Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	return name
}

// kebab converts Go identifiers to command-line naming: underscores become
// hyphens, camelCase humps split on hyphens, everything lowercased.
// "AddUser" -> "add-user", "add_user" -> "add-user", "HTTPGet" -> "http-get".
func kebab(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '_' {
			b.WriteRune('-')
			continue
		}
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && runes[i-1] != '-' && runes[i-1] != '_' && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
