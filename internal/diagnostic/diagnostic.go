// Package diagnostic turns type errors into located diagnostics.
//
// The type core reports conditions without source locations; callers attach
// the range of the offending construct and collect the result here. A
// DiagnosticFilter lets configuration change the severity of a rule or turn
// it off.
package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/HugoDaniel/shadertypes/internal/types"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error fails the check.
	Error Severity = iota
	// Warning is a non-blocking issue.
	Warning
	// Info is an informational message.
	Info
	// Note provides additional context for another diagnostic.
	Note

	// off disables a rule in a DiagnosticFilter.
	off Severity = 255
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Note:
		return "note"
	case off:
		return "off"
	default:
		return "unknown"
	}
}

// ParseSeverity parses "error", "warning", "info", "note" or "off".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return Error, nil
	case "warning", "warn":
		return Warning, nil
	case "info":
		return Info, nil
	case "note":
		return Note, nil
	case "off":
		return off, nil
	}
	return Error, fmt.Errorf("unknown severity %q", s)
}

// Position represents a position in source code.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// Range represents a range in source code.
type Range struct {
	Start Position
	End   Position
}

// At returns an empty range at line:column.
func At(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{Start: p, End: p}
}

// RelatedInfo provides additional location information for a diagnostic.
type RelatedInfo struct {
	Range   Range
	Message string
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     DiagnosticCode // Error code (e.g., "E0200")
	Rule     string         // Filter rule name, empty if not filterable
	Message  string         // Human-readable message
	Range    Range          // Source location
	Related  []RelatedInfo  // Related locations
}

// Error returns a formatted error string.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message)
}

// DiagnosticList collects diagnostics for one source file.
type DiagnosticList struct {
	diagnostics []Diagnostic
	filter      *DiagnosticFilter
	source      string
	lineStarts  []int
	hasErrors   bool
}

// NewDiagnosticList creates a new diagnostic list for the given source.
func NewDiagnosticList(source string) *DiagnosticList {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &DiagnosticList{
		diagnostics: make([]Diagnostic, 0),
		source:      source,
		lineStarts:  starts,
	}
}

// SetFilter installs a severity filter. Diagnostics added afterwards with a
// Rule are adjusted or dropped by it.
func (dl *DiagnosticList) SetFilter(f *DiagnosticFilter) {
	dl.filter = f
}

// Add adds a diagnostic to the list.
func (dl *DiagnosticList) Add(d Diagnostic) {
	if d.Rule != "" && dl.filter != nil {
		if dl.filter.IsDisabled(d.Rule) {
			return
		}
		d.Severity = dl.filter.GetSeverity(d.Rule, d.Severity)
	}
	dl.diagnostics = append(dl.diagnostics, d)
	if d.Severity == Error {
		dl.hasErrors = true
	}
}

// AddError adds an error diagnostic at the given range.
func (dl *DiagnosticList) AddError(rng Range, message string) {
	dl.Add(Diagnostic{Severity: Error, Message: message, Range: rng})
}

// AddErrorWithCode adds an error diagnostic with an error code.
func (dl *DiagnosticList) AddErrorWithCode(rng Range, code DiagnosticCode, message string) {
	dl.Add(Diagnostic{Severity: Error, Code: code, Message: message, Range: rng})
}

// AddWarning adds a warning diagnostic at the given range.
func (dl *DiagnosticList) AddWarning(rng Range, message string) {
	dl.Add(Diagnostic{Severity: Warning, Message: message, Range: rng})
}

// AddNote adds a note diagnostic at the given range.
func (dl *DiagnosticList) AddNote(rng Range, message string) {
	dl.Add(Diagnostic{Severity: Note, Message: message, Range: rng})
}

// AddTypeError adds the diagnostic for a type core error at rng.
func (dl *DiagnosticList) AddTypeError(err error, rng Range) {
	dl.Add(FromError(err, rng))
}

// MakePosition converts a byte offset to a Position.
func (dl *DiagnosticList) MakePosition(offset int) Position {
	line := sort.Search(len(dl.lineStarts), func(i int) bool {
		return dl.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - dl.lineStarts[line] + 1,
	}
}

// MakeRange converts byte offsets to a Range.
func (dl *DiagnosticList) MakeRange(start, end int) Range {
	return Range{
		Start: dl.MakePosition(start),
		End:   dl.MakePosition(end),
	}
}

// HasErrors returns true if there are any error-level diagnostics.
func (dl *DiagnosticList) HasErrors() bool {
	return dl.hasErrors
}

// Diagnostics returns all collected diagnostics.
func (dl *DiagnosticList) Diagnostics() []Diagnostic {
	return dl.diagnostics
}

// Errors returns only error-level diagnostics.
func (dl *DiagnosticList) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range dl.diagnostics {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errs
}

// Warnings returns only warning-level diagnostics.
func (dl *DiagnosticList) Warnings() []Diagnostic {
	var warnings []Diagnostic
	for _, d := range dl.diagnostics {
		if d.Severity == Warning {
			warnings = append(warnings, d)
		}
	}
	return warnings
}

// Count returns the total number of diagnostics.
func (dl *DiagnosticList) Count() int {
	return len(dl.diagnostics)
}

// ErrorCount returns the number of error-level diagnostics.
func (dl *DiagnosticList) ErrorCount() int {
	count := 0
	for _, d := range dl.diagnostics {
		if d.Severity == Error {
			count++
		}
	}
	return count
}

// Format formats all diagnostics as a human-readable string.
func (dl *DiagnosticList) Format() string {
	if len(dl.diagnostics) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, d := range dl.diagnostics {
		sb.WriteString(dl.FormatDiagnostic(&d))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatDiagnostic formats a single diagnostic with source context.
func (dl *DiagnosticList) FormatDiagnostic(d *Diagnostic) string {
	var sb strings.Builder

	if d.Code != "" {
		sb.WriteString(fmt.Sprintf("%d:%d: %s[%s]: %s\n",
			d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Code, d.Message))
	} else {
		sb.WriteString(fmt.Sprintf("%d:%d: %s: %s\n",
			d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message))
	}

	sourceLine := dl.getSourceLine(d.Range.Start.Line)
	if sourceLine != "" && d.Range.Start.Column > 0 {
		sb.WriteString(fmt.Sprintf("    %s\n", sourceLine))
		caret := strings.Repeat(" ", d.Range.Start.Column-1+4) + "^"
		if d.Range.End.Line == d.Range.Start.Line && d.Range.End.Column > d.Range.Start.Column {
			caret += strings.Repeat("~", d.Range.End.Column-d.Range.Start.Column-1)
		}
		sb.WriteString(caret)
		sb.WriteByte('\n')
	}

	for _, rel := range d.Related {
		sb.WriteString(fmt.Sprintf("  %d:%d: note: %s\n",
			rel.Range.Start.Line, rel.Range.Start.Column, rel.Message))
	}

	return sb.String()
}

// getSourceLine returns the source code line at the given 1-based line number.
func (dl *DiagnosticList) getSourceLine(line int) string {
	if line < 1 || line > len(dl.lineStarts) {
		return ""
	}
	start := dl.lineStarts[line-1]
	end := len(dl.source)
	if line < len(dl.lineStarts) {
		end = dl.lineStarts[line] - 1
	}
	return strings.TrimRight(dl.source[start:end], "\r")
}

// Clear removes all diagnostics.
func (dl *DiagnosticList) Clear() {
	dl.diagnostics = dl.diagnostics[:0]
	dl.hasErrors = false
}

// ----------------------------------------------------------------------------
// Codes and Rules
// ----------------------------------------------------------------------------

// DiagnosticCode defines standard error codes.
type DiagnosticCode string

const (
	// Table errors (E00xx)
	CodeInvalidTable   DiagnosticCode = "E0001"
	CodeInvalidTypeRef DiagnosticCode = "E0002"
	CodeInvalidNumber  DiagnosticCode = "E0003"

	// Symbol errors (E01xx)
	CodeUndefinedSymbol DiagnosticCode = "E0100"
	CodeDuplicateSymbol DiagnosticCode = "E0101"
	CodeRecursiveType   DiagnosticCode = "E0104"

	// Type errors (E02xx)
	CodeTypeMismatch      DiagnosticCode = "E0200"
	CodeInvalidConversion DiagnosticCode = "E0209"
	CodeAsymmetricRule    DiagnosticCode = "E0211"
	CodeInvalidType       DiagnosticCode = "E0212"

	// Expectation failures (E09xx)
	CodeUnexpectedResult DiagnosticCode = "E0900"
)

// Filterable rules, one per type error kind.
const (
	RuleShapeMismatch         = string(types.ShapeMismatch)
	RuleUnresolvedDeclaration = string(types.UnresolvedDeclaration)
	RuleCyclicAlias           = string(types.CyclicAliasDefinition)
	RuleCompatSymmetry        = "compat_symmetry"
)

// FromError builds the diagnostic for err at rng. Errors that did not come
// from the type core become plain errors.
func FromError(err error, rng Range) Diagnostic {
	d := Diagnostic{
		Severity: Error,
		Message:  err.Error(),
		Range:    rng,
	}

	var te *types.Error
	if !errors.As(err, &te) {
		return d
	}

	switch te.Kind {
	case types.ShapeMismatch:
		d.Code = CodeTypeMismatch
		d.Rule = RuleShapeMismatch
		d.Message = fmt.Sprintf("type mismatch between '%s' and '%s'", te.From, te.To)
		if te.Detail != "" {
			d.Message += ": " + te.Detail
		}
	case types.UnresolvedDeclaration:
		d.Code = CodeUndefinedSymbol
		d.Rule = RuleUnresolvedDeclaration
		d.Message = fmt.Sprintf("unresolved declaration '%s'", te.From)
		if te.Detail != "" {
			d.Message += ": " + te.Detail
		}
	case types.CyclicAliasDefinition:
		d.Code = CodeRecursiveType
		d.Rule = RuleCyclicAlias
		d.Message = fmt.Sprintf("cyclic alias definition: %s", strings.Join(te.Path, " -> "))
	case types.AsymmetricRule:
		d.Code = CodeAsymmetricRule
		d.Rule = RuleCompatSymmetry
		d.Severity = Warning
		d.Message = fmt.Sprintf("asymmetric rule for '%s' and '%s': %s", te.From, te.To, te.Detail)
	case types.InvalidType:
		d.Code = CodeInvalidType
	}
	return d
}

// DiagnosticFilter controls which diagnostics are reported.
type DiagnosticFilter struct {
	// Rules maps diagnostic rule names to their severity override.
	Rules map[string]Severity
}

// NewDiagnosticFilter creates a new filter with default settings.
func NewDiagnosticFilter() *DiagnosticFilter {
	return &DiagnosticFilter{
		Rules: make(map[string]Severity),
	}
}

// SetRule sets the severity for a diagnostic rule.
func (f *DiagnosticFilter) SetRule(rule string, severity Severity) {
	f.Rules[rule] = severity
}

// DisableRule disables a diagnostic rule.
func (f *DiagnosticFilter) DisableRule(rule string) {
	f.Rules[rule] = off
}

// IsDisabled returns true if the rule is disabled.
func (f *DiagnosticFilter) IsDisabled(rule string) bool {
	if sev, ok := f.Rules[rule]; ok {
		return sev == off
	}
	return false
}

// GetSeverity returns the severity for a rule, or the default if not set.
func (f *DiagnosticFilter) GetSeverity(rule string, defaultSev Severity) Severity {
	if sev, ok := f.Rules[rule]; ok && sev != off {
		return sev
	}
	return defaultSev
}
