package abacus

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// DataValidation restricts the data a user can enter in a cell and
// optionally shows input help and error dialogs. Add one to a range with
// Worksheet.AddDataValidation.
//
//	validation := abacus.NewDataValidation().
//		AllowWholeNumber(abacus.DataValidationBetween(1, 5)).
//		SetInputTitle("Enter a star rating").
//		SetInputMessage("Whole numbers 1-5 only.")
//	ws.AddDataValidation(1, 3, 1, 3, validation)
//
// The default validation allows any value, which Excel only keeps when an
// input or error message is set.
type DataValidation struct {
	validationType dvType
	rule           DataValidationRule

	ignoreBlank      bool
	showInputMessage bool
	showErrorMessage bool
	showDropdown     bool

	multiRange   string
	inputTitle   string
	inputMessage string
	errorTitle   string
	errorMessage string
	errorStyle   DataValidationErrorStyle

	err error
}

// NewDataValidation creates a data validation with Excel's defaults:
// blanks are allowed and input and error messages are shown.
func NewDataValidation() *DataValidation {
	return &DataValidation{
		validationType:   dvAny,
		rule:             DataValidationRule{op: dvEqual},
		ignoreBlank:      true,
		showInputMessage: true,
		showErrorMessage: true,
		showDropdown:     true,
	}
}

// AllowWholeNumber restricts input to integers matching the rule.
func (v *DataValidation) AllowWholeNumber(rule DataValidationRule) *DataValidation {
	return v.setRule(dvWhole, rule)
}

// AllowDecimalNumber restricts input to numbers matching the rule.
func (v *DataValidation) AllowDecimalNumber(rule DataValidationRule) *DataValidation {
	return v.setRule(dvDecimal, rule)
}

// AllowDate restricts input to dates matching the rule. Rule values are
// time.Time dates or cell references.
func (v *DataValidation) AllowDate(rule DataValidationRule) *DataValidation {
	return v.setRule(dvDate, rule)
}

// AllowTime restricts input to times of day matching the rule. Literal
// rule values use a time.Time on the zero date, so only the clock part
// counts.
func (v *DataValidation) AllowTime(rule DataValidationRule) *DataValidation {
	return v.setRule(dvTime, rule)
}

// AllowTextLength restricts input to strings whose length matches the
// rule.
func (v *DataValidation) AllowTextLength(rule DataValidationRule) *DataValidation {
	return v.setRule(dvTextLength, rule)
}

// AllowListStrings restricts input to a dropdown list of literal strings.
// Excel limits the joined list to 255 characters; longer lists should be
// written to cells and referenced with AllowListFormula.
func (v *DataValidation) AllowListStrings(list []string) *DataValidation {
	escaped := make([]string, len(list))
	for i, s := range list {
		escaped[i] = strings.ReplaceAll(s, `"`, `""`)
	}
	joined := strings.Join(escaped, ",")

	if n := utf8.RuneCountInString(joined); n > maxParameterLen {
		v.err = newParameterError("validation list",
			"list length "+strconv.Itoa(n)+" including commas exceeds Excel's limit of 255 characters")
		return v
	}

	v.validationType = dvList
	v.rule = DataValidationRule{op: dvListSource, value1: `"` + joined + `"`}
	return v
}

// AllowListFormula restricts input to a dropdown list sourced from a cell
// range reference such as "=$B$1:$B$9" or "=Sheet2!B1:B9".
func (v *DataValidation) AllowListFormula(list Formula) *DataValidation {
	v.validationType = dvList
	v.rule = DataValidationRule{op: dvListSource, value1: list.expand(false)}
	return v
}

// AllowCustom restricts input to values for which the formula is true.
func (v *DataValidation) AllowCustom(formula Formula) *DataValidation {
	v.validationType = dvCustom
	v.rule = DataValidationRule{op: dvCustomFormula, value1: formula.expand(false)}
	return v
}

// AllowAnyValue removes any input restriction. This is the default and is
// mainly used to attach an input message to a cell.
func (v *DataValidation) AllowAnyValue() *DataValidation {
	v.validationType = dvAny
	v.rule = DataValidationRule{op: dvEqual}
	return v
}

func (v *DataValidation) setRule(validationType dvType, rule DataValidationRule) *DataValidation {
	if rule.err != nil && v.err == nil {
		v.err = rule.err
	}
	v.validationType = validationType
	v.rule = rule
	return v
}

// SetIgnoreBlank sets whether the user may leave the cell blank. On by
// default.
func (v *DataValidation) SetIgnoreBlank(enable bool) *DataValidation {
	v.ignoreBlank = enable
	return v
}

// SetShowDropdown sets whether list validations show the in-cell dropdown
// arrow. On by default.
func (v *DataValidation) SetShowDropdown(enable bool) *DataValidation {
	v.showDropdown = enable
	return v
}

// SetShowInputMessage sets whether the input message appears when the
// cell is entered. On by default.
func (v *DataValidation) SetShowInputMessage(enable bool) *DataValidation {
	v.showInputMessage = enable
	return v
}

// SetShowErrorMessage sets whether the error dialog appears on invalid
// input. On by default.
func (v *DataValidation) SetShowErrorMessage(enable bool) *DataValidation {
	v.showErrorMessage = enable
	return v
}

// SetInputTitle sets the bold title of the input message. Excel limits
// titles to 32 characters.
func (v *DataValidation) SetInputTitle(title string) *DataValidation {
	v.inputTitle = title
	return v
}

// SetInputMessage sets the message shown when the cell is entered. Excel
// limits messages to 255 characters; newlines split the message over
// several lines.
func (v *DataValidation) SetInputMessage(message string) *DataValidation {
	v.inputMessage = message
	return v
}

// SetErrorTitle sets the bold title of the error dialog. Excel limits
// titles to 32 characters.
func (v *DataValidation) SetErrorTitle(title string) *DataValidation {
	v.errorTitle = title
	return v
}

// SetErrorMessage sets the message of the error dialog. Excel limits
// messages to 255 characters.
func (v *DataValidation) SetErrorMessage(message string) *DataValidation {
	v.errorMessage = message
	return v
}

// SetErrorStyle sets the error dialog type: stop, warning, or
// information.
func (v *DataValidation) SetErrorStyle(style DataValidationErrorStyle) *DataValidation {
	v.errorStyle = style
	return v
}

// SetMultiRange extends the validation over non-contiguous ranges like
// "B3 I3 B9:D12", replacing the range given to AddDataValidation.
func (v *DataValidation) SetMultiRange(ranges string) *DataValidation {
	v.multiRange = cleanMultiRange(ranges)
	return v
}

// validate reports deferred construction errors and checks the title and
// message limits. Called when the validation is added to a worksheet.
func (v *DataValidation) validate() error {
	if v.err != nil {
		return v.err
	}

	// Excel limits dialog titles to 32 characters.
	if utf8.RuneCountInString(v.inputTitle) > 32 {
		return newParameterError("validation input title",
			"title exceeds Excel's limit of 32 characters")
	}
	if utf8.RuneCountInString(v.errorTitle) > 32 {
		return newParameterError("validation error title",
			"title exceeds Excel's limit of 32 characters")
	}

	if utf8.RuneCountInString(v.inputMessage) > maxParameterLen {
		return newParameterError("validation input message",
			"message exceeds Excel's limit of 255 characters")
	}
	if utf8.RuneCountInString(v.errorMessage) > maxParameterLen {
		return newParameterError("validation error message",
			"message exceeds Excel's limit of 255 characters")
	}

	return nil
}

// ignored reports whether the validation has no effect. Excel discards an
// "any" validation that carries no titles or messages.
func (v *DataValidation) ignored() bool {
	return v.validationType == dvAny &&
		v.inputTitle == "" &&
		v.inputMessage == "" &&
		v.errorTitle == "" &&
		v.errorMessage == ""
}

// writeXML writes the dataValidation element for the given range.
func (v *DataValidation) writeXML(w *xmlwriter.Writer, sqref string) {
	attrs := make([]xmlwriter.Attr, 0, 8)

	if v.validationType != dvAny {
		attrs = append(attrs, xmlwriter.Attr{Key: "type", Value: v.validationType.value()})
	}

	if v.errorStyle != DataValidationErrorStyleStop {
		attrs = append(attrs, xmlwriter.Attr{Key: "errorStyle", Value: v.errorStyle.value()})
	}

	if v.validationType != dvAny {
		switch v.rule.op {
		case dvBetween, dvCustomFormula, dvListSource:
			// Between is Excel's default operator. Custom and list
			// validations have no operator.
		default:
			attrs = append(attrs, xmlwriter.Attr{Key: "operator", Value: v.rule.op.value()})
		}
	}

	if v.ignoreBlank {
		attrs = append(attrs, xmlwriter.Attr{Key: "allowBlank", Value: "1"})
	}
	if !v.showDropdown {
		attrs = append(attrs, xmlwriter.Attr{Key: "showDropDown", Value: "1"})
	}
	if v.showInputMessage {
		attrs = append(attrs, xmlwriter.Attr{Key: "showInputMessage", Value: "1"})
	}
	if v.showErrorMessage {
		attrs = append(attrs, xmlwriter.Attr{Key: "showErrorMessage", Value: "1"})
	}

	if v.errorTitle != "" {
		attrs = append(attrs, xmlwriter.Attr{Key: "errorTitle", Value: v.errorTitle})
	}
	if v.errorMessage != "" {
		attrs = append(attrs, xmlwriter.Attr{Key: "error", Value: v.errorMessage})
	}
	if v.inputTitle != "" {
		attrs = append(attrs, xmlwriter.Attr{Key: "promptTitle", Value: v.inputTitle})
	}
	if v.inputMessage != "" {
		attrs = append(attrs, xmlwriter.Attr{Key: "prompt", Value: v.inputMessage})
	}

	attrs = append(attrs, xmlwriter.Attr{Key: "sqref", Value: sqref})

	if v.validationType == dvAny {
		w.EmptyTagAttr("dataValidation", attrs)
		return
	}

	w.StartTagAttr("dataValidation", attrs)
	w.DataElement("formula1", v.rule.value1)
	if v.rule.op == dvBetween || v.rule.op == dvNotBetween {
		w.DataElement("formula2", v.rule.value2)
	}
	w.EndTag("dataValidation")
}

// DataValidationValue is the set of types a validation rule can compare
// against: integers, numbers, dates and times, and cell references given
// as a Formula.
type DataValidationValue interface {
	int | float64 | time.Time | Formula
}

// DataValidationRule is a comparison rule for a data validation, built
// with constructors such as DataValidationBetween or
// DataValidationGreaterThan.
type DataValidationRule struct {
	op     dvOperator
	value1 string
	value2 string
	err    error
}

// DataValidationEqualTo restricts input to values equal to the target.
func DataValidationEqualTo[T DataValidationValue](value T) DataValidationRule {
	return newSingleValueRule(dvEqual, value)
}

// DataValidationNotEqualTo restricts input to values not equal to the
// target.
func DataValidationNotEqualTo[T DataValidationValue](value T) DataValidationRule {
	return newSingleValueRule(dvNotEqual, value)
}

// DataValidationGreaterThan restricts input to values greater than the
// target.
func DataValidationGreaterThan[T DataValidationValue](value T) DataValidationRule {
	return newSingleValueRule(dvGreaterThan, value)
}

// DataValidationGreaterThanOrEqualTo restricts input to values greater
// than or equal to the target.
func DataValidationGreaterThanOrEqualTo[T DataValidationValue](value T) DataValidationRule {
	return newSingleValueRule(dvGreaterThanOrEqual, value)
}

// DataValidationLessThan restricts input to values less than the target.
func DataValidationLessThan[T DataValidationValue](value T) DataValidationRule {
	return newSingleValueRule(dvLessThan, value)
}

// DataValidationLessThanOrEqualTo restricts input to values less than or
// equal to the target.
func DataValidationLessThanOrEqualTo[T DataValidationValue](value T) DataValidationRule {
	return newSingleValueRule(dvLessThanOrEqual, value)
}

// DataValidationBetween restricts input to values between min and max
// inclusive.
func DataValidationBetween[T DataValidationValue](min, max T) DataValidationRule {
	return newPairValueRule(dvBetween, min, max)
}

// DataValidationNotBetween restricts input to values outside min to max.
func DataValidationNotBetween[T DataValidationValue](min, max T) DataValidationRule {
	return newPairValueRule(dvNotBetween, min, max)
}

func newSingleValueRule[T DataValidationValue](op dvOperator, value T) DataValidationRule {
	rule := DataValidationRule{op: op}
	rule.value1, rule.err = dataValidationValue(value)
	return rule
}

func newPairValueRule[T DataValidationValue](op dvOperator, min, max T) DataValidationRule {
	rule := DataValidationRule{op: op}
	rule.value1, rule.err = dataValidationValue(min)
	if rule.err == nil {
		rule.value2, rule.err = dataValidationValue(max)
	}
	return rule
}

// dataValidationValue converts a rule value to the string stored in the
// formula element. Dates and times become serial numbers; formulas are
// stored without their leading "=".
func dataValidationValue(value any) (string, error) {
	switch value := value.(type) {
	case int:
		return strconv.Itoa(value), nil
	case float64:
		return formatFloat(value), nil
	case time.Time:
		serial, err := DatetimeToSerial(value)
		if err != nil {
			return "", err
		}
		return formatFloat(serial), nil
	case Formula:
		return value.expand(false), nil
	}
	return "", nil
}

type dvType int

const (
	dvAny dvType = iota
	dvWhole
	dvDecimal
	dvDate
	dvTime
	dvTextLength
	dvCustom
	dvList
)

func (t dvType) value() string {
	switch t {
	case dvWhole:
		return "whole"
	case dvDecimal:
		return "decimal"
	case dvDate:
		return "date"
	case dvTime:
		return "time"
	case dvTextLength:
		return "textLength"
	case dvCustom:
		return "custom"
	case dvList:
		return "list"
	default:
		return "any"
	}
}

type dvOperator int

const (
	dvBetween dvOperator = iota
	dvNotBetween
	dvEqual
	dvNotEqual
	dvGreaterThan
	dvGreaterThanOrEqual
	dvLessThan
	dvLessThanOrEqual
	dvCustomFormula
	dvListSource
)

func (o dvOperator) value() string {
	switch o {
	case dvNotBetween:
		return "notBetween"
	case dvEqual:
		return "equal"
	case dvNotEqual:
		return "notEqual"
	case dvGreaterThan:
		return "greaterThan"
	case dvGreaterThanOrEqual:
		return "greaterThanOrEqual"
	case dvLessThan:
		return "lessThan"
	case dvLessThanOrEqual:
		return "lessThanOrEqual"
	default:
		return "between"
	}
}

// DataValidationErrorStyle is the dialog type shown when input fails a
// data validation.
type DataValidationErrorStyle int

// Error dialog types. Stop rejects the input; the other two allow the
// user to keep it.
const (
	DataValidationErrorStyleStop DataValidationErrorStyle = iota
	DataValidationErrorStyleWarning
	DataValidationErrorStyleInformation
)

func (s DataValidationErrorStyle) value() string {
	switch s {
	case DataValidationErrorStyleWarning:
		return "warning"
	case DataValidationErrorStyleInformation:
		return "information"
	default:
		return "stop"
	}
}
