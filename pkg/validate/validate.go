// Package validate provides struct-tag validation with Laravel-style messages.
//
// Rules are comma-separated in the `validate` tag:
//
//	required            field must not be zero/empty (nil pointers are empty)
//	nullable            if empty, skip all remaining rules for this field
//	email, url, uuid, alpha_dash, numeric, integer, boolean, date
//	min=N / max=N       string: char length | number: value | slice: item count
//	size=N              exact length
//	gt=N gte=N lt=N lte=N
//	between=lo,hi       inclusive, number value or string length
//	in=a,b,c / not_in=a,b,c
//	regex=pattern       avoid commas in pattern
//	confirmed           must equal the sibling <field>_confirmation
//	dive                validate each element of a slice of structs (errors keyed field.i.sub)
//
// Pointers are dereferenced, so optional update payloads use *T with
// "nullable,...". New rules can be added with Register.
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Field is the value under validation plus what a rule may need around it.
type Field struct {
	Name   string
	Value  reflect.Value
	Raw    string
	Param  string
	Parent reflect.Value
}

// Rule returns an error message, or "" when the field passes.
type Rule func(f Field) string

var (
	registryMu sync.RWMutex
	registry   = map[string]Rule{}
)

// Register adds or replaces a named rule.
func Register(name string, r Rule) {
	registryMu.Lock()
	registry[name] = r
	registryMu.Unlock()
}

func lookup(name string) (Rule, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[name]
	return r, ok
}

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns fieldName → message; an empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	validateStruct(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func validateStruct(rv reflect.Value, prefix string, errs map[string]string) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}

		name := prefix + jsonFieldName(sf)
		rules := splitRules(tag)
		value := rv.Field(i)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		failed := false
		for _, rule := range rules {
			if rule == "nullable" || rule == "dive" {
				continue
			}
			if msg := apply(rule, name, value, rv); msg != "" {
				errs[name] = msg
				failed = true
				break
			}
		}

		if !failed && hasRule(rules, "dive") {
			elems := indirect(value)
			if elems.Kind() == reflect.Slice || elems.Kind() == reflect.Array {
				for j := 0; j < elems.Len(); j++ {
					validateStruct(elems.Index(j), fmt.Sprintf("%s.%d.", name, j), errs)
				}
			}
		}
	}
}

func apply(rule, name string, v, parent reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	r, ok := lookup(strings.TrimSpace(key))
	if !ok {
		return ""
	}
	// required must see nil pointers; every other rule sees the pointee.
	if key != "required" {
		if v.Kind() == reflect.Ptr && v.IsNil() {
			return ""
		}
		v = indirect(v)
	}
	return r(Field{Name: name, Value: v, Raw: rawString(v), Param: param, Parent: parent})
}

var (
	emailRE      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRE       = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	alphaDashRE  = regexp.MustCompile(`^[\pL\pN_-]+$`)
	digitsOnlyRE = regexp.MustCompile(`^\d+$`)
)

func init() {
	Register("required", func(f Field) string {
		if isEmpty(f.Value) {
			return fmt.Sprintf("The %s field is required.", f.Name)
		}
		return ""
	})
	Register("email", func(f Field) string {
		if !emailRE.MatchString(f.Raw) {
			return fmt.Sprintf("The %s must be a valid email address.", f.Name)
		}
		return ""
	})
	Register("url", func(f Field) string {
		u, err := url.ParseRequestURI(f.Raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", f.Name)
		}
		return ""
	})
	Register("uuid", func(f Field) string {
		if !uuidRE.MatchString(f.Raw) {
			return fmt.Sprintf("The %s must be a valid UUID.", f.Name)
		}
		return ""
	})
	Register("alpha_dash", func(f Field) string {
		if !alphaDashRE.MatchString(f.Raw) {
			return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", f.Name)
		}
		return ""
	})
	Register("numeric", func(f Field) string {
		if _, err := strconv.ParseFloat(f.Raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", f.Name)
		}
		return ""
	})
	Register("integer", func(f Field) string {
		if _, err := strconv.ParseInt(f.Raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", f.Name)
		}
		return ""
	})
	Register("boolean", func(f Field) string {
		switch strings.ToLower(f.Raw) {
		case "true", "false", "1", "0":
			return ""
		}
		return fmt.Sprintf("The %s field must be true or false.", f.Name)
	})
	Register("date", func(f Field) string {
		if _, err := parseDate(f.Raw); err != nil {
			return fmt.Sprintf("The %s is not a valid date.", f.Name)
		}
		return ""
	})
	Register("min", func(f Field) string {
		n := parseFloat(f.Param)
		switch {
		case isNumeric(f.Value):
			if toFloat(f.Value) < n {
				return fmt.Sprintf("The %s must be at least %s.", f.Name, f.Param)
			}
		case isCollection(f.Value):
			if float64(f.Value.Len()) < n {
				return fmt.Sprintf("The %s must have at least %s items.", f.Name, f.Param)
			}
		default:
			if float64(len([]rune(f.Raw))) < n {
				return fmt.Sprintf("The %s must be at least %s characters.", f.Name, f.Param)
			}
		}
		return ""
	})
	Register("max", func(f Field) string {
		n := parseFloat(f.Param)
		switch {
		case isNumeric(f.Value):
			if toFloat(f.Value) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", f.Name, f.Param)
			}
		case isCollection(f.Value):
			if float64(f.Value.Len()) > n {
				return fmt.Sprintf("The %s must not have more than %s items.", f.Name, f.Param)
			}
		default:
			if float64(len([]rune(f.Raw))) > n {
				return fmt.Sprintf("The %s must not exceed %s characters.", f.Name, f.Param)
			}
		}
		return ""
	})
	Register("size", func(f Field) string {
		if float64(len([]rune(f.Raw))) != parseFloat(f.Param) {
			return fmt.Sprintf("The %s must be exactly %s characters.", f.Name, f.Param)
		}
		return ""
	})
	Register("gt", compare(func(a, b float64) bool { return a > b }, "greater than"))
	Register("gte", compare(func(a, b float64) bool { return a >= b }, "greater than or equal to"))
	Register("lt", compare(func(a, b float64) bool { return a < b }, "less than"))
	Register("lte", compare(func(a, b float64) bool { return a <= b }, "less than or equal to"))
	Register("between", func(f Field) string {
		lo, hi, ok := strings.Cut(f.Param, ",")
		if !ok {
			return ""
		}
		low, high := parseFloat(lo), parseFloat(hi)
		if isNumeric(f.Value) {
			if n := toFloat(f.Value); n < low || n > high {
				return fmt.Sprintf("The %s must be between %s and %s.", f.Name, lo, hi)
			}
			return ""
		}
		if l := float64(len([]rune(f.Raw))); l < low || l > high {
			return fmt.Sprintf("The %s must be between %s and %s characters.", f.Name, lo, hi)
		}
		return ""
	})
	Register("digits", func(f Field) string {
		if !digitsOnlyRE.MatchString(f.Raw) || float64(len(f.Raw)) != parseFloat(f.Param) {
			return fmt.Sprintf("The %s must be %s digits.", f.Name, f.Param)
		}
		return ""
	})
	Register("in", func(f Field) string {
		for _, a := range strings.Split(f.Param, ",") {
			if f.Raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", f.Name)
	})
	Register("not_in", func(f Field) string {
		for _, a := range strings.Split(f.Param, ",") {
			if f.Raw == strings.TrimSpace(a) {
				return fmt.Sprintf("The selected %s is invalid.", f.Name)
			}
		}
		return ""
	})
	Register("regex", func(f Field) string {
		re, err := regexp.Compile(f.Param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", f.Name)
		}
		if !re.MatchString(f.Raw) {
			return fmt.Sprintf("The %s format is invalid.", f.Name)
		}
		return ""
	})
	Register("confirmed", func(f Field) string {
		base := f.Name[strings.LastIndex(f.Name, ".")+1:]
		other := sibling(f.Parent, base+"_confirmation")
		if !other.IsValid() || rawString(indirect(other)) != f.Raw {
			return fmt.Sprintf("The %s confirmation does not match.", f.Name)
		}
		return ""
	})
}

func compare(ok func(a, b float64) bool, phrase string) Rule {
	return func(f Field) string {
		if !ok(toFloat(f.Value), parseFloat(f.Param)) {
			return fmt.Sprintf("The %s must be %s %s.", f.Name, phrase, f.Param)
		}
		return ""
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date", s)
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func rawString(v reflect.Value) string {
	if !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		return ""
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

type zeroer interface{ IsZero() bool }

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if z, ok := v.Interface().(zeroer); ok {
			return z.IsZero()
		}
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return isDecimalLike(v)
}

// isDecimalLike matches struct number types such as decimal.Decimal.
func isDecimalLike(v reflect.Value) bool {
	if v.Kind() != reflect.Struct {
		return false
	}
	s, ok := v.Interface().(fmt.Stringer)
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(s.String(), 64)
	return err == nil
}

func isCollection(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array || v.Kind() == reflect.Map
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return parseFloat(rawString(v))
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func sibling(parent reflect.Value, jsonName string) reflect.Value {
	if parent.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == jsonName {
			return parent.Field(i)
		}
	}
	return reflect.Value{}
}

// splitRules splits the tag on commas, keeping multi-value parameters
// (in=, not_in=, between=) together until the next known rule name.
func splitRules(tag string) []string {
	var rules []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n := len(rules); n > 0 && continuesParam(rules[n-1], tok) {
			rules[n-1] += "," + tok
			continue
		}
		rules = append(rules, tok)
	}
	return rules
}

func continuesParam(prev, tok string) bool {
	key, _, hasParam := strings.Cut(prev, "=")
	if !hasParam {
		return false
	}
	switch key {
	case "in", "not_in", "between":
	default:
		return false
	}
	name, _, _ := strings.Cut(tok, "=")
	if _, known := lookup(name); known || name == "nullable" || name == "dive" {
		return false
	}
	return true
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
