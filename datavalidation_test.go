package abacus

import (
	"strings"
	"testing"
	"time"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

func validationXML(v *DataValidation, sqref string) string {
	w := xmlwriter.New()
	v.writeXML(w, sqref)
	return w.String()
}

// TestDataValidationWholeNumber tests a whole number rule with an operator
func TestDataValidationWholeNumber(t *testing.T) {
	v := NewDataValidation().AllowWholeNumber(DataValidationGreaterThan(0))

	got := validationXML(v, "A1")
	want := `<dataValidation type="whole" operator="greaterThan" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>0</formula1>` +
		`</dataValidation>`

	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestDataValidationBetween tests that the default between operator is
// omitted and that both formulas are written
func TestDataValidationBetween(t *testing.T) {
	v := NewDataValidation().AllowDecimalNumber(DataValidationBetween(1.0, 2.0))

	got := validationXML(v, "A1")
	want := `<dataValidation type="decimal" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>1</formula1>` +
		`<formula2>2</formula2>` +
		`</dataValidation>`

	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestDataValidationOperators tests the operator attribute values
func TestDataValidationOperators(t *testing.T) {
	tests := []struct {
		rule DataValidationRule
		want string
	}{
		{DataValidationEqualTo(5), `operator="equal"`},
		{DataValidationNotEqualTo(5), `operator="notEqual"`},
		{DataValidationGreaterThan(5), `operator="greaterThan"`},
		{DataValidationGreaterThanOrEqualTo(5), `operator="greaterThanOrEqual"`},
		{DataValidationLessThan(5), `operator="lessThan"`},
		{DataValidationLessThanOrEqualTo(5), `operator="lessThanOrEqual"`},
		{DataValidationNotBetween(1, 5), `operator="notBetween"`},
	}

	for _, test := range tests {
		v := NewDataValidation().AllowWholeNumber(test.rule)
		got := validationXML(v, "A1")
		if !strings.Contains(got, test.want) {
			t.Errorf("operator missing\ngot: %s\nwant substring: %s", got, test.want)
		}
	}
}

// TestDataValidationOptions tests the allowBlank, showDropDown and message
// visibility flags
func TestDataValidationOptions(t *testing.T) {
	v := NewDataValidation().
		AllowWholeNumber(DataValidationLessThan(10)).
		SetIgnoreBlank(false)
	got := validationXML(v, "A1")
	if strings.Contains(got, "allowBlank") {
		t.Errorf("allowBlank written with blanks disallowed\ngot: %s", got)
	}

	v = NewDataValidation().
		AllowWholeNumber(DataValidationLessThan(10)).
		SetShowInputMessage(false)
	got = validationXML(v, "A1")
	if strings.Contains(got, "showInputMessage") {
		t.Errorf("showInputMessage written when disabled\ngot: %s", got)
	}

	v = NewDataValidation().
		AllowWholeNumber(DataValidationLessThan(10)).
		SetShowErrorMessage(false)
	got = validationXML(v, "A1")
	if strings.Contains(got, "showErrorMessage") {
		t.Errorf("showErrorMessage written when disabled\ngot: %s", got)
	}

	v = NewDataValidation().
		AllowListStrings([]string{"Foo", "Bar"}).
		SetShowDropdown(false)
	got = validationXML(v, "A1")
	if !strings.Contains(got, `showDropDown="1"`) {
		t.Errorf("showDropDown missing with the dropdown hidden\ngot: %s", got)
	}
}

// TestDataValidationMessages tests the title and message attribute order
func TestDataValidationMessages(t *testing.T) {
	v := NewDataValidation().
		AllowWholeNumber(DataValidationNotEqualTo(10)).
		SetErrorTitle("Title 2").
		SetErrorMessage("Message 2").
		SetInputTitle("Title 1").
		SetInputMessage("Message 1")

	got := validationXML(v, "A1")
	want := `<dataValidation type="whole" operator="notEqual" allowBlank="1" showInputMessage="1" showErrorMessage="1" errorTitle="Title 2" error="Message 2" promptTitle="Title 1" prompt="Message 1" sqref="A1">` +
		`<formula1>10</formula1>` +
		`</dataValidation>`

	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestDataValidationErrorStyle tests the errorStyle attribute placement
func TestDataValidationErrorStyle(t *testing.T) {
	v := NewDataValidation().
		AllowWholeNumber(DataValidationNotEqualTo(10)).
		SetErrorStyle(DataValidationErrorStyleWarning)

	got := validationXML(v, "A1")
	want := `<dataValidation type="whole" errorStyle="warning" operator="notEqual" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">`
	if !strings.Contains(got, want) {
		t.Errorf("validation doesn't match\ngot: %s\nwant substring: %s", got, want)
	}

	v = NewDataValidation().
		AllowWholeNumber(DataValidationNotEqualTo(10)).
		SetErrorStyle(DataValidationErrorStyleInformation)
	got = validationXML(v, "A1")
	if !strings.Contains(got, `errorStyle="information"`) {
		t.Errorf("information style missing\ngot: %s", got)
	}
}

// TestDataValidationDateTime tests that date and time rules convert to
// serial numbers
func TestDataValidationDateTime(t *testing.T) {
	v := NewDataValidation().AllowDate(DataValidationGreaterThan(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	got := validationXML(v, "A1")
	want := `<dataValidation type="date" operator="greaterThan" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>45658</formula1>` +
		`</dataValidation>`
	if got != want {
		t.Errorf("date validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}

	v = NewDataValidation().AllowTime(DataValidationGreaterThan(
		time.Date(1, 1, 1, 12, 0, 0, 0, time.UTC)))
	got = validationXML(v, "A1")
	want = `<dataValidation type="time" operator="greaterThan" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>0.5</formula1>` +
		`</dataValidation>`
	if got != want {
		t.Errorf("time validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestDataValidationTextLength tests a text length rule
func TestDataValidationTextLength(t *testing.T) {
	v := NewDataValidation().AllowTextLength(DataValidationGreaterThan(6))

	got := validationXML(v, "A1")
	want := `<dataValidation type="textLength" operator="greaterThan" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>6</formula1>` +
		`</dataValidation>`

	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestDataValidationCustom tests that custom formulas have no operator
func TestDataValidationCustom(t *testing.T) {
	v := NewDataValidation().AllowCustom(NewFormula("=ISNUMBER(A1)"))

	got := validationXML(v, "A1")
	want := `<dataValidation type="custom" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>ISNUMBER(A1)</formula1>` +
		`</dataValidation>`

	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}
}

// TestDataValidationListStrings tests the quoted literal list source
func TestDataValidationListStrings(t *testing.T) {
	v := NewDataValidation().AllowListStrings([]string{"Foo", "Bar", "Baz"})

	got := validationXML(v, "A1")
	want := `<dataValidation type="list" allowBlank="1" showInputMessage="1" showErrorMessage="1" sqref="A1">` +
		`<formula1>"Foo,Bar,Baz"</formula1>` +
		`</dataValidation>`

	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}

	v = NewDataValidation().AllowListStrings([]string{`say "yes"`, "no"})
	if v.rule.value1 != `"say ""yes"",no"` {
		t.Errorf("quote escaping failed: %s", v.rule.value1)
	}
}

// TestDataValidationListFormula tests a range sourced dropdown list
func TestDataValidationListFormula(t *testing.T) {
	v := NewDataValidation().AllowListFormula(NewFormula("=$F$2:$F$4"))

	got := validationXML(v, "A1")
	if !strings.Contains(got, `<formula1>$F$2:$F$4</formula1>`) {
		t.Errorf("list source missing\ngot: %s", got)
	}
}

// TestDataValidationCellReferenceRule tests a rule backed by a cell
// reference instead of a literal
func TestDataValidationCellReferenceRule(t *testing.T) {
	v := NewDataValidation().AllowWholeNumber(
		DataValidationLessThanOrEqualTo(NewFormula("=D1")))

	got := validationXML(v, "A1")
	if !strings.Contains(got, `<formula1>D1</formula1>`) {
		t.Errorf("cell reference missing\ngot: %s", got)
	}
}

// TestDataValidationAny tests that an unrestricted validation writes no
// type, operator or formulas
func TestDataValidationAny(t *testing.T) {
	v := NewDataValidation().SetInputMessage("Enter a value")

	got := validationXML(v, "C3")
	want := `<dataValidation allowBlank="1" showInputMessage="1" showErrorMessage="1" prompt="Enter a value" sqref="C3"/>`
	if got != want {
		t.Errorf("validation doesn't match\ngot:  %s\nwant: %s", got, want)
	}

	if v.ignored() {
		t.Error("validation with a message should not be ignored")
	}
	if !NewDataValidation().ignored() {
		t.Error("bare any validation should be ignored")
	}
}

// TestDataValidationLimits tests the list, title and message length checks
func TestDataValidationLimits(t *testing.T) {
	long := strings.Repeat("x", 256)

	v := NewDataValidation().AllowListStrings([]string{long})
	if err := v.validate(); err == nil {
		t.Error("over-long list should fail validation")
	}

	v = NewDataValidation().SetInputTitle(strings.Repeat("t", 33))
	if err := v.validate(); err == nil {
		t.Error("over-long input title should fail validation")
	}

	v = NewDataValidation().SetErrorMessage(long)
	if err := v.validate(); err == nil {
		t.Error("over-long error message should fail validation")
	}

	v = NewDataValidation().
		AllowWholeNumber(DataValidationBetween(1, 10)).
		SetInputTitle(strings.Repeat("t", 32)).
		SetInputMessage(strings.Repeat("m", 255))
	if err := v.validate(); err != nil {
		t.Errorf("validation at the limits failed: %v", err)
	}
}

// TestDataValidationMultiRange tests the multi range normalization
func TestDataValidationMultiRange(t *testing.T) {
	v := NewDataValidation().SetMultiRange("$B$3,I3,B9:D12")
	if v.multiRange != "B3 I3 B9:D12" {
		t.Errorf("multi range = %q; want %q", v.multiRange, "B3 I3 B9:D12")
	}
}
