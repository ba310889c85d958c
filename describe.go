package hull

import (
	"reflect"
	"sort"
	"strings"
)

// DescribeType renders a type the way diagnostics print it: package-qualified
// with a dot, generic type arguments in angle brackets.
//
//	DescribeType(reflect.TypeOf(&Pair[int, B]{})) // "*hull.Pair<int, hull.B>"
func DescribeType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Func, reflect.Struct, reflect.Interface:
		if t.Name() == "" {
			return t.String()
		}
	}

	out, _ := parseTypeExpr(t.String())

	return out
}

// DescribeConstructor renders a component type and its constructor's parameter
// types as Type(Param, Param).
func DescribeConstructor(t reflect.Type, params []reflect.Type) string {
	var sb strings.Builder

	sb.WriteString(DescribeType(t))
	sb.WriteByte('(')

	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(DescribeType(p))
	}

	sb.WriteByte(')')

	return sb.String()
}

// parseTypeExpr rewrites one type expression from the front of s and returns it
// with the unconsumed remainder.
func parseTypeExpr(s string) (string, string) {
	switch {
	case s == "":
		return "", ""
	case strings.HasPrefix(s, "*"):
		inner, rest := parseTypeExpr(s[1:])
		return "*" + inner, rest
	case strings.HasPrefix(s, "[]"):
		inner, rest := parseTypeExpr(s[2:])
		return "[]" + inner, rest
	case s[0] == '[':
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return s, ""
		}

		inner, rest := parseTypeExpr(s[end+1:])

		return s[:end+1] + inner, rest
	case strings.HasPrefix(s, "map["):
		key, rest := parseTypeExpr(s[4:])
		rest = strings.TrimPrefix(rest, "]")
		val, rest := parseTypeExpr(rest)

		return "map[" + key + "]" + val, rest
	case strings.HasPrefix(s, "<-chan "):
		inner, rest := parseTypeExpr(s[7:])
		return "<-chan " + inner, rest
	case strings.HasPrefix(s, "chan<- "):
		inner, rest := parseTypeExpr(s[7:])
		return "chan<- " + inner, rest
	case strings.HasPrefix(s, "chan "):
		inner, rest := parseTypeExpr(s[5:])
		return "chan " + inner, rest
	case strings.HasPrefix(s, "func("), strings.HasPrefix(s, "struct {"), strings.HasPrefix(s, "interface {"):
		end := literalEnd(s)
		return s[:end], s[end:]
	}

	// Named type, possibly instantiated.
	end := strings.IndexAny(s, "[],")
	if end < 0 {
		end = len(s)
	}

	name := trimImportPath(s[:end])
	rest := s[end:]

	if !strings.HasPrefix(rest, "[") {
		return name, rest
	}

	var args []string

	rest = rest[1:]

	for rest != "" {
		var arg string

		arg, rest = parseTypeExpr(rest)
		args = append(args, arg)

		if strings.HasPrefix(rest, ",") {
			rest = strings.TrimPrefix(rest[1:], " ")
			continue
		}

		rest = strings.TrimPrefix(rest, "]")

		break
	}

	return name + "<" + strings.Join(args, ", ") + ">", rest
}

// trimImportPath turns "github.com/x/pkg.Name" into "pkg.Name".
func trimImportPath(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name
	}

	if slash := strings.LastIndexByte(name[:dot], '/'); slash >= 0 {
		return name[slash+1:]
	}

	return name
}

// literalEnd finds the end of an unnamed func, struct or interface literal: the
// first ',' or ']' outside any bracket pair.
func literalEnd(s string) int {
	depth := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', '}':
			depth--
		case ']':
			if depth == 0 {
				return i
			}

			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}

	return len(s)
}

func describeAll(types []reflect.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = DescribeType(t)
	}

	return out
}

func describeSignatures(sigs []Signature) []string {
	out := make([]string, len(sigs))
	for i, sig := range sigs {
		out[i] = sig.String()
	}

	return out
}

// sortTypes orders types by their description, ordinally.
func sortTypes(types []reflect.Type) {
	sort.SliceStable(types, func(i, j int) bool {
		return DescribeType(types[i]) < DescribeType(types[j])
	})
}

// missingReport renders the Missing block followed by the Incomplete block.
func missingReport(missing []reflect.Type, incomplete []Signature) string {
	lines := describeAll(missing)
	sort.Strings(lines)

	var sb strings.Builder

	sb.WriteString("Missing:")

	for _, line := range lines {
		sb.WriteString("\n  ")
		sb.WriteString(line)
	}

	return incompleteReport(sb.String(), incomplete)
}

// incompleteReport renders header (if any) followed by the sorted Incomplete block.
func incompleteReport(header string, incomplete []Signature) string {
	lines := describeSignatures(incomplete)
	sort.Strings(lines)

	var sb strings.Builder

	if header != "" {
		sb.WriteString(header)
		sb.WriteByte('\n')
	}

	sb.WriteString("Incomplete:")

	for _, line := range lines {
		sb.WriteString("\n  ")
		sb.WriteString(line)
	}

	return sb.String()
}
