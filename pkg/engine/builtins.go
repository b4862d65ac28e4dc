package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/mapgen/pkg/graph"
	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source before passing it to zygomys.
// It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: set-param -> set_param
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toIndex extracts a source slot index.
func toIndex(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer index, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_perlin) and plain strings ("perlin").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toParamName accepts kebab or snake case; parameter tables use snake case.
func toParamName(s zygo.Sexp) (string, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(name, "-", "_"), nil
}

// toGo converts a scalar Sexp into a value param.Coerce understands.
func toGo(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpBool:
		return v.Val, nil
	}
	return nil, fmt.Errorf("expected number or boolean, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// session is the graph state a single script run mutates.
type session struct {
	reg    *graph.Registry
	output string
}

func (s *session) result() *Result {
	return &Result{Registry: s.reg, Output: s.output}
}

// lookup resolves a node name argument.
func (s *session) lookup(arg zygo.Sexp) (*graph.Node, error) {
	name, err := toKeywordString(arg)
	if err != nil {
		return nil, err
	}
	return s.reg.Get(name)
}

// setParam coerces a script value into the stored variant of pname.
func setParam(n *graph.Node, pname string, raw zygo.Sexp) error {
	x, err := toGo(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", pname, err)
	}
	cur, err := n.Params().Get(pname)
	if err != nil {
		return err
	}
	v, err := param.Coerce(cur, x)
	if err != nil {
		return fmt.Errorf("%s: %w", pname, err)
	}
	return n.SetParam(pname, v)
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the graph editing functions. Kebab-case names
// are registered in their preprocessed underscore form.
func registerBuiltins(env *zygo.Zlisp, s *session) {
	// (node "name" :type :param value ...) creates a node and returns its name.
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("node requires a name and a type")
		}
		nodeName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: name: %w", err)
		}
		typName, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: type: %w", err)
		}
		typ, err := noise.ParseNodeType(typName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}

		rest := parseArgs(args[2:])
		if len(rest.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("node: unexpected argument %s", rest.positional[0].SexpString(nil))
		}

		n, err := s.reg.Create(nodeName, typ)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		for _, kw := range slices.Sorted(maps.Keys(rest.kw)) {
			if err := setParam(n, strings.ReplaceAll(kw, "-", "_"), rest.kw[kw]); err != nil {
				return zygo.SexpNull, fmt.Errorf("node %q: %w", nodeName, err)
			}
		}
		return &zygo.SexpStr{S: nodeName}, nil
	})

	// (set-param "name" "param" value)
	env.AddFunction("set_param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("set-param requires a node, a parameter and a value")
		}
		n, err := s.lookup(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: %w", err)
		}
		pname, err := toParamName(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: parameter: %w", err)
		}
		if err := setParam(n, pname, args[2]); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (connect "sink" index "source")
	env.AddFunction("connect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("connect requires a sink, an index and a source")
		}
		sink, err := s.lookup(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: sink: %w", err)
		}
		i, err := toIndex(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: %w", err)
		}
		src, err := s.lookup(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: source: %w", err)
		}
		if err := sink.SetSourceModule(i, src); err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (disconnect "sink" index)
	env.AddFunction("disconnect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("disconnect requires a sink and an index")
		}
		sink, err := s.lookup(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("disconnect: %w", err)
		}
		i, err := toIndex(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("disconnect: %w", err)
		}
		if err := sink.SetSourceModule(i, nil); err != nil {
			return zygo.SexpNull, fmt.Errorf("disconnect: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (remove-node "name") reports whether a node was removed.
	env.AddFunction("remove_node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("remove-node requires a name")
		}
		nodeName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-node: %w", err)
		}
		if nodeName == s.output {
			s.output = ""
		}
		return &zygo.SexpBool{Val: s.reg.Remove(nodeName)}, nil
	})

	// (rename-node "old" "new")
	env.AddFunction("rename_node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rename-node requires the current and the new name")
		}
		cur, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename-node: %w", err)
		}
		next, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename-node: %w", err)
		}
		if err := s.reg.Rename(cur, next); err != nil {
			return zygo.SexpNull, fmt.Errorf("rename-node: %w", err)
		}
		if s.output == cur {
			s.output = next
		}
		return &zygo.SexpStr{S: next}, nil
	})

	// (update "name") revalidates and applies parameters.
	env.AddFunction("update", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("update requires a name")
		}
		n, err := s.lookup(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("update: %w", err)
		}
		return &zygo.SexpBool{Val: n.Update()}, nil
	})

	// (update-all) returns the number of valid nodes.
	env.AddFunction("update_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(s.reg.UpdateAll())}, nil
	})

	// (valid? "name") reports the cached validity.
	env.AddFunction("valid?", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("valid? requires a name")
		}
		n, err := s.lookup(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("valid?: %w", err)
		}
		return &zygo.SexpBool{Val: n.IsValid()}, nil
	})

	// (output "name") chooses the node callers sample or mesh.
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("output requires a name")
		}
		nodeName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("output: %w", err)
		}
		if !s.reg.Has(nodeName) {
			return zygo.SexpNull, fmt.Errorf("output: %w: %q", graph.ErrNotFound, nodeName)
		}
		s.output = nodeName
		return &zygo.SexpStr{S: nodeName}, nil
	})

	// (sample "name" x y z)
	env.AddFunction("sample", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("sample requires a name and x, y, z")
		}
		n, err := s.lookup(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sample: %w", err)
		}
		var p [3]float64
		for i := range p {
			if p[i], err = toFloat64(args[i+1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("sample: coordinate %d: %w", i, err)
			}
		}
		return &zygo.SexpFloat{Val: n.Evaluate(p[0], p[1], p[2])}, nil
	})
}
