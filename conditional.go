package abacus

import (
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/abacus/internal/xmlwriter"
)

// ConditionalFormat is a formatting rule applied to a worksheet range
// with Worksheet.AddConditionalFormat. The rules that highlight matching
// cells (ConditionalFormatCell, ConditionalFormatFormula and
// ConditionalFormatDuplicate) carry the highlight as a Format; the
// visual rules (ConditionalFormat2ColorScale, ConditionalFormat3ColorScale
// and ConditionalFormatDataBar) paint the cell directly.
type ConditionalFormat interface {
	validate() error
	multiRange() string
	dxfFormat() (Format, bool)
	writeRule(w *xmlwriter.Writer, dxfID, priority int)
}

// ConditionalFormatCell highlights cells whose value matches a
// comparison rule.
//
//	highlight := abacus.NewConditionalFormatCell().
//		SetRule(abacus.CellRuleGreaterThan(50)).
//		SetFormat(abacus.NewFormat().SetBackgroundColor(abacus.RGB(0xFFC7CE)))
//	ws.AddConditionalFormat(0, 0, 9, 0, highlight)
type ConditionalFormatCell struct {
	rule       ConditionalFormatCellRule
	ruleSet    bool
	format     Format
	formatSet  bool
	stopIfTrue bool
	ranges     string
}

// NewConditionalFormatCell creates a cell value conditional format. A
// comparison rule must be set before the format is added to a worksheet.
func NewConditionalFormatCell() *ConditionalFormatCell {
	return &ConditionalFormatCell{}
}

// SetRule sets the comparison rule, built with a constructor such as
// CellRuleGreaterThan or CellRuleBetween.
func (c *ConditionalFormatCell) SetRule(rule ConditionalFormatCellRule) *ConditionalFormatCell {
	c.rule = rule
	c.ruleSet = true
	return c
}

// SetFormat sets the format applied to matching cells.
func (c *ConditionalFormatCell) SetFormat(format Format) *ConditionalFormatCell {
	c.format = format
	c.formatSet = true
	return c
}

// SetStopIfTrue stops Excel evaluating lower priority rules on cells
// this rule matches.
func (c *ConditionalFormatCell) SetStopIfTrue(enable bool) *ConditionalFormatCell {
	c.stopIfTrue = enable
	return c
}

// SetMultiRange extends the format over non-contiguous ranges like
// "B3:D6 I3:K6", replacing the range given to AddConditionalFormat.
func (c *ConditionalFormatCell) SetMultiRange(ranges string) *ConditionalFormatCell {
	c.ranges = cleanMultiRange(ranges)
	return c
}

func (c *ConditionalFormatCell) validate() error {
	if !c.ruleSet {
		return newParameterError("conditional format", "cell rule not set")
	}
	return c.rule.err
}

func (c *ConditionalFormatCell) multiRange() string { return c.ranges }

func (c *ConditionalFormatCell) dxfFormat() (Format, bool) { return c.format, c.formatSet }

func (c *ConditionalFormatCell) writeRule(w *xmlwriter.Writer, dxfID, priority int) {
	attrs := cfRuleAttrs("cellIs", dxfID, priority, c.stopIfTrue)
	attrs = append(attrs, xmlwriter.Attr{Key: "operator", Value: c.rule.op.value()})

	w.StartTagAttr("cfRule", attrs)
	w.DataElement("formula", c.rule.value1)
	if c.rule.op == cfBetween || c.rule.op == cfNotBetween {
		w.DataElement("formula", c.rule.value2)
	}
	w.EndTag("cfRule")
}

// ConditionalFormatFormula highlights cells for which a formula
// evaluates to true. The formula is relative to the top left cell of the
// applied range.
type ConditionalFormatFormula struct {
	formula    string
	format     Format
	formatSet  bool
	stopIfTrue bool
	ranges     string
}

// NewConditionalFormatFormula creates a formula conditional format. A
// formula must be set before the format is added to a worksheet.
func NewConditionalFormatFormula() *ConditionalFormatFormula {
	return &ConditionalFormatFormula{}
}

// SetRule sets the boolean formula, such as "=ISODD(A1)".
func (c *ConditionalFormatFormula) SetRule(formula Formula) *ConditionalFormatFormula {
	c.formula = formula.expand(false)
	return c
}

// SetFormat sets the format applied to matching cells.
func (c *ConditionalFormatFormula) SetFormat(format Format) *ConditionalFormatFormula {
	c.format = format
	c.formatSet = true
	return c
}

// SetStopIfTrue stops Excel evaluating lower priority rules on cells
// this rule matches.
func (c *ConditionalFormatFormula) SetStopIfTrue(enable bool) *ConditionalFormatFormula {
	c.stopIfTrue = enable
	return c
}

// SetMultiRange extends the format over non-contiguous ranges,
// replacing the range given to AddConditionalFormat.
func (c *ConditionalFormatFormula) SetMultiRange(ranges string) *ConditionalFormatFormula {
	c.ranges = cleanMultiRange(ranges)
	return c
}

func (c *ConditionalFormatFormula) validate() error {
	if c.formula == "" {
		return newParameterError("conditional format", "formula not set")
	}
	return nil
}

func (c *ConditionalFormatFormula) multiRange() string { return c.ranges }

func (c *ConditionalFormatFormula) dxfFormat() (Format, bool) { return c.format, c.formatSet }

func (c *ConditionalFormatFormula) writeRule(w *xmlwriter.Writer, dxfID, priority int) {
	w.StartTagAttr("cfRule", cfRuleAttrs("expression", dxfID, priority, c.stopIfTrue))
	w.DataElement("formula", c.formula)
	w.EndTag("cfRule")
}

// ConditionalFormatDuplicate highlights duplicated cell values in the
// applied range, or unique values after Invert.
type ConditionalFormatDuplicate struct {
	inverted   bool
	format     Format
	formatSet  bool
	stopIfTrue bool
	ranges     string
}

// NewConditionalFormatDuplicate creates a duplicate value conditional
// format.
func NewConditionalFormatDuplicate() *ConditionalFormatDuplicate {
	return &ConditionalFormatDuplicate{}
}

// Invert highlights unique values instead of duplicated ones.
func (c *ConditionalFormatDuplicate) Invert() *ConditionalFormatDuplicate {
	c.inverted = true
	return c
}

// SetFormat sets the format applied to matching cells.
func (c *ConditionalFormatDuplicate) SetFormat(format Format) *ConditionalFormatDuplicate {
	c.format = format
	c.formatSet = true
	return c
}

// SetStopIfTrue stops Excel evaluating lower priority rules on cells
// this rule matches.
func (c *ConditionalFormatDuplicate) SetStopIfTrue(enable bool) *ConditionalFormatDuplicate {
	c.stopIfTrue = enable
	return c
}

// SetMultiRange extends the format over non-contiguous ranges,
// replacing the range given to AddConditionalFormat.
func (c *ConditionalFormatDuplicate) SetMultiRange(ranges string) *ConditionalFormatDuplicate {
	c.ranges = cleanMultiRange(ranges)
	return c
}

func (c *ConditionalFormatDuplicate) validate() error { return nil }

func (c *ConditionalFormatDuplicate) multiRange() string { return c.ranges }

func (c *ConditionalFormatDuplicate) dxfFormat() (Format, bool) { return c.format, c.formatSet }

func (c *ConditionalFormatDuplicate) writeRule(w *xmlwriter.Writer, dxfID, priority int) {
	ruleType := "duplicateValues"
	if c.inverted {
		ruleType = "uniqueValues"
	}
	w.EmptyTagAttr("cfRule", cfRuleAttrs(ruleType, dxfID, priority, c.stopIfTrue))
}

// ConditionalFormat2ColorScale shades each cell in the applied range
// with a color interpolated between two anchor colors according to the
// cell's value. The default scale runs yellow to green over the lowest
// to highest values in the range.
type ConditionalFormat2ColorScale struct {
	min        scaleRule
	max        scaleRule
	minColor   Color
	maxColor   Color
	stopIfTrue bool
	ranges     string
}

// NewConditionalFormat2ColorScale creates a 2 color scale conditional
// format.
func NewConditionalFormat2ColorScale() *ConditionalFormat2ColorScale {
	return &ConditionalFormat2ColorScale{
		min:      scaleRule{ruleType: ConditionalFormatTypeLowest, value: "0"},
		max:      scaleRule{ruleType: ConditionalFormatTypeHighest, value: "0"},
		minColor: RGB(0xFFEF9C),
		maxColor: RGB(0x63BE7B),
	}
}

// SetMinimum anchors the low end of the scale at a number, percent,
// percentile, or formula value instead of the lowest value in the range.
// Unusable anchors, such as string values or percents outside 0-100, are
// ignored.
func (c *ConditionalFormat2ColorScale) SetMinimum(ruleType ConditionalFormatType, value any) *ConditionalFormat2ColorScale {
	c.min = setScaleRule(c.min, ruleType, value)
	return c
}

// SetMaximum anchors the high end of the scale instead of the highest
// value in the range.
func (c *ConditionalFormat2ColorScale) SetMaximum(ruleType ConditionalFormatType, value any) *ConditionalFormat2ColorScale {
	c.max = setScaleRule(c.max, ruleType, value)
	return c
}

// SetMinimumColor sets the color of the low end of the scale.
func (c *ConditionalFormat2ColorScale) SetMinimumColor(color Color) *ConditionalFormat2ColorScale {
	if !color.isDefault() {
		c.minColor = color
	}
	return c
}

// SetMaximumColor sets the color of the high end of the scale.
func (c *ConditionalFormat2ColorScale) SetMaximumColor(color Color) *ConditionalFormat2ColorScale {
	if !color.isDefault() {
		c.maxColor = color
	}
	return c
}

// SetStopIfTrue stops Excel evaluating lower priority rules on cells
// this rule matches.
func (c *ConditionalFormat2ColorScale) SetStopIfTrue(enable bool) *ConditionalFormat2ColorScale {
	c.stopIfTrue = enable
	return c
}

// SetMultiRange extends the format over non-contiguous ranges,
// replacing the range given to AddConditionalFormat.
func (c *ConditionalFormat2ColorScale) SetMultiRange(ranges string) *ConditionalFormat2ColorScale {
	c.ranges = cleanMultiRange(ranges)
	return c
}

func (c *ConditionalFormat2ColorScale) validate() error { return nil }

func (c *ConditionalFormat2ColorScale) multiRange() string { return c.ranges }

func (c *ConditionalFormat2ColorScale) dxfFormat() (Format, bool) { return Format{}, false }

func (c *ConditionalFormat2ColorScale) writeRule(w *xmlwriter.Writer, _, priority int) {
	w.StartTagAttr("cfRule", cfRuleAttrs("colorScale", -1, priority, c.stopIfTrue))
	w.StartTag("colorScale")
	writeScaleValue(w, c.min)
	writeScaleValue(w, c.max)
	writeScaleColor(w, c.minColor)
	writeScaleColor(w, c.maxColor)
	w.EndTag("colorScale")
	w.EndTag("cfRule")
}

// ConditionalFormat3ColorScale shades each cell in the applied range
// with a color interpolated between three anchor colors according to the
// cell's value. The default scale runs red through yellow to green, with
// the midpoint at the 50th percentile.
type ConditionalFormat3ColorScale struct {
	min        scaleRule
	mid        scaleRule
	max        scaleRule
	minColor   Color
	midColor   Color
	maxColor   Color
	stopIfTrue bool
	ranges     string
}

// NewConditionalFormat3ColorScale creates a 3 color scale conditional
// format.
func NewConditionalFormat3ColorScale() *ConditionalFormat3ColorScale {
	return &ConditionalFormat3ColorScale{
		min:      scaleRule{ruleType: ConditionalFormatTypeLowest, value: "0"},
		mid:      scaleRule{ruleType: ConditionalFormatTypePercentile, value: "50"},
		max:      scaleRule{ruleType: ConditionalFormatTypeHighest, value: "0"},
		minColor: RGB(0xF8696B),
		midColor: RGB(0xFFEB84),
		maxColor: RGB(0x63BE7B),
	}
}

// SetMinimum anchors the low end of the scale at a number, percent,
// percentile, or formula value instead of the lowest value in the range.
// Unusable anchors, such as string values or percents outside 0-100, are
// ignored.
func (c *ConditionalFormat3ColorScale) SetMinimum(ruleType ConditionalFormatType, value any) *ConditionalFormat3ColorScale {
	c.min = setScaleRule(c.min, ruleType, value)
	return c
}

// SetMidpoint anchors the midpoint of the scale instead of the 50th
// percentile.
func (c *ConditionalFormat3ColorScale) SetMidpoint(ruleType ConditionalFormatType, value any) *ConditionalFormat3ColorScale {
	c.mid = setScaleRule(c.mid, ruleType, value)
	return c
}

// SetMaximum anchors the high end of the scale instead of the highest
// value in the range.
func (c *ConditionalFormat3ColorScale) SetMaximum(ruleType ConditionalFormatType, value any) *ConditionalFormat3ColorScale {
	c.max = setScaleRule(c.max, ruleType, value)
	return c
}

// SetMinimumColor sets the color of the low end of the scale.
func (c *ConditionalFormat3ColorScale) SetMinimumColor(color Color) *ConditionalFormat3ColorScale {
	if !color.isDefault() {
		c.minColor = color
	}
	return c
}

// SetMidpointColor sets the color of the midpoint of the scale.
func (c *ConditionalFormat3ColorScale) SetMidpointColor(color Color) *ConditionalFormat3ColorScale {
	if !color.isDefault() {
		c.midColor = color
	}
	return c
}

// SetMaximumColor sets the color of the high end of the scale.
func (c *ConditionalFormat3ColorScale) SetMaximumColor(color Color) *ConditionalFormat3ColorScale {
	if !color.isDefault() {
		c.maxColor = color
	}
	return c
}

// SetStopIfTrue stops Excel evaluating lower priority rules on cells
// this rule matches.
func (c *ConditionalFormat3ColorScale) SetStopIfTrue(enable bool) *ConditionalFormat3ColorScale {
	c.stopIfTrue = enable
	return c
}

// SetMultiRange extends the format over non-contiguous ranges,
// replacing the range given to AddConditionalFormat.
func (c *ConditionalFormat3ColorScale) SetMultiRange(ranges string) *ConditionalFormat3ColorScale {
	c.ranges = cleanMultiRange(ranges)
	return c
}

func (c *ConditionalFormat3ColorScale) validate() error { return nil }

func (c *ConditionalFormat3ColorScale) multiRange() string { return c.ranges }

func (c *ConditionalFormat3ColorScale) dxfFormat() (Format, bool) { return Format{}, false }

func (c *ConditionalFormat3ColorScale) writeRule(w *xmlwriter.Writer, _, priority int) {
	w.StartTagAttr("cfRule", cfRuleAttrs("colorScale", -1, priority, c.stopIfTrue))
	w.StartTag("colorScale")
	writeScaleValue(w, c.min)
	writeScaleValue(w, c.mid)
	writeScaleValue(w, c.max)
	writeScaleColor(w, c.minColor)
	writeScaleColor(w, c.midColor)
	writeScaleColor(w, c.maxColor)
	w.EndTag("colorScale")
	w.EndTag("cfRule")
}

// ConditionalFormatDataBar draws a horizontal bar in each cell of the
// applied range whose length is proportional to the cell's value. Bars
// use the classic Excel 2007 solid style.
type ConditionalFormatDataBar struct {
	min        scaleRule
	max        scaleRule
	fillColor  Color
	barOnly    bool
	stopIfTrue bool
	ranges     string
}

// NewConditionalFormatDataBar creates a data bar conditional format with
// the default blue fill.
func NewConditionalFormatDataBar() *ConditionalFormatDataBar {
	return &ConditionalFormatDataBar{
		min:       scaleRule{ruleType: ConditionalFormatTypeLowest, value: "0"},
		max:       scaleRule{ruleType: ConditionalFormatTypeHighest, value: "0"},
		fillColor: RGB(0x638EC6),
	}
}

// SetMinimum anchors the zero length bar at a number, percent,
// percentile, or formula value instead of the lowest value in the range.
// Unusable anchors, such as string values or percents outside 0-100, are
// ignored.
func (c *ConditionalFormatDataBar) SetMinimum(ruleType ConditionalFormatType, value any) *ConditionalFormatDataBar {
	c.min = setScaleRule(c.min, ruleType, value)
	return c
}

// SetMaximum anchors the full length bar instead of the highest value in
// the range.
func (c *ConditionalFormatDataBar) SetMaximum(ruleType ConditionalFormatType, value any) *ConditionalFormatDataBar {
	c.max = setScaleRule(c.max, ruleType, value)
	return c
}

// SetFillColor sets the bar color.
func (c *ConditionalFormatDataBar) SetFillColor(color Color) *ConditionalFormatDataBar {
	if !color.isDefault() {
		c.fillColor = color
	}
	return c
}

// SetBarOnly hides the cell value so only the bar shows.
func (c *ConditionalFormatDataBar) SetBarOnly(enable bool) *ConditionalFormatDataBar {
	c.barOnly = enable
	return c
}

// SetStopIfTrue stops Excel evaluating lower priority rules on cells
// this rule matches.
func (c *ConditionalFormatDataBar) SetStopIfTrue(enable bool) *ConditionalFormatDataBar {
	c.stopIfTrue = enable
	return c
}

// SetMultiRange extends the format over non-contiguous ranges,
// replacing the range given to AddConditionalFormat.
func (c *ConditionalFormatDataBar) SetMultiRange(ranges string) *ConditionalFormatDataBar {
	c.ranges = cleanMultiRange(ranges)
	return c
}

func (c *ConditionalFormatDataBar) validate() error { return nil }

func (c *ConditionalFormatDataBar) multiRange() string { return c.ranges }

func (c *ConditionalFormatDataBar) dxfFormat() (Format, bool) { return Format{}, false }

func (c *ConditionalFormatDataBar) writeRule(w *xmlwriter.Writer, _, priority int) {
	w.StartTagAttr("cfRule", cfRuleAttrs("dataBar", -1, priority, c.stopIfTrue))

	if c.barOnly {
		w.StartTagAttr("dataBar", []xmlwriter.Attr{{Key: "showValue", Value: "0"}})
	} else {
		w.StartTag("dataBar")
	}
	writeScaleValue(w, c.min)
	writeScaleValue(w, c.max)
	writeScaleColor(w, c.fillColor)
	w.EndTag("dataBar")

	w.EndTag("cfRule")
}

// ConditionalFormatValue is the set of types a cell rule can compare
// against: integers, numbers, literal strings, dates and times, and cell
// references given as a Formula.
type ConditionalFormatValue interface {
	int | float64 | string | time.Time | Formula
}

// ConditionalFormatCellRule is a comparison rule for a cell conditional
// format, built with constructors such as CellRuleGreaterThan or
// CellRuleBetween.
type ConditionalFormatCellRule struct {
	op     cfOperator
	value1 string
	value2 string
	err    error
}

// CellRuleEqualTo matches cells equal to the target value.
func CellRuleEqualTo[T ConditionalFormatValue](value T) ConditionalFormatCellRule {
	return newSingleValueCellRule(cfEqual, value)
}

// CellRuleNotEqualTo matches cells not equal to the target value.
func CellRuleNotEqualTo[T ConditionalFormatValue](value T) ConditionalFormatCellRule {
	return newSingleValueCellRule(cfNotEqual, value)
}

// CellRuleGreaterThan matches cells greater than the target value.
func CellRuleGreaterThan[T ConditionalFormatValue](value T) ConditionalFormatCellRule {
	return newSingleValueCellRule(cfGreaterThan, value)
}

// CellRuleGreaterThanOrEqualTo matches cells greater than or equal to
// the target value.
func CellRuleGreaterThanOrEqualTo[T ConditionalFormatValue](value T) ConditionalFormatCellRule {
	return newSingleValueCellRule(cfGreaterThanOrEqual, value)
}

// CellRuleLessThan matches cells less than the target value.
func CellRuleLessThan[T ConditionalFormatValue](value T) ConditionalFormatCellRule {
	return newSingleValueCellRule(cfLessThan, value)
}

// CellRuleLessThanOrEqualTo matches cells less than or equal to the
// target value.
func CellRuleLessThanOrEqualTo[T ConditionalFormatValue](value T) ConditionalFormatCellRule {
	return newSingleValueCellRule(cfLessThanOrEqual, value)
}

// CellRuleBetween matches cells between min and max inclusive.
func CellRuleBetween[T ConditionalFormatValue](min, max T) ConditionalFormatCellRule {
	return newPairValueCellRule(cfBetween, min, max)
}

// CellRuleNotBetween matches cells outside min to max.
func CellRuleNotBetween[T ConditionalFormatValue](min, max T) ConditionalFormatCellRule {
	return newPairValueCellRule(cfNotBetween, min, max)
}

func newSingleValueCellRule[T ConditionalFormatValue](op cfOperator, value T) ConditionalFormatCellRule {
	rule := ConditionalFormatCellRule{op: op}
	rule.value1, rule.err = conditionalFormatValue(value)
	return rule
}

func newPairValueCellRule[T ConditionalFormatValue](op cfOperator, min, max T) ConditionalFormatCellRule {
	rule := ConditionalFormatCellRule{op: op}
	rule.value1, rule.err = conditionalFormatValue(min)
	if rule.err == nil {
		rule.value2, rule.err = conditionalFormatValue(max)
	}
	return rule
}

// conditionalFormatValue converts a rule value to its formula string.
// Literal strings are quoted the way Excel requires in cell rules; dates
// and times become serial numbers; formulas are stored without their
// leading "=".
func conditionalFormatValue(value any) (string, error) {
	switch value := value.(type) {
	case int:
		return strconv.Itoa(value), nil
	case float64:
		return formatFloat(value), nil
	case string:
		return quoteCellRuleString(value), nil
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

// quoteCellRuleString double quotes a literal string, doubling any
// embedded quotes. Already quoted strings pass through unchanged.
func quoteCellRuleString(s string) string {
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// cleanMultiRange strips absolute markers from a range list like
// "$B$3:$D$6,$I$3:$K$6" and separates the ranges with spaces.
func cleanMultiRange(ranges string) string {
	return strings.NewReplacer("$", "", ",", " ").Replace(ranges)
}

// cfRuleAttrs assembles the attributes shared by every cfRule element. A
// negative dxfID means the rule has no differential format.
func cfRuleAttrs(ruleType string, dxfID, priority int, stopIfTrue bool) []xmlwriter.Attr {
	attrs := make([]xmlwriter.Attr, 0, 5)
	attrs = append(attrs, xmlwriter.Attr{Key: "type", Value: ruleType})
	if dxfID >= 0 {
		attrs = append(attrs, xmlwriter.Attr{Key: "dxfId", Value: strconv.Itoa(dxfID)})
	}
	attrs = append(attrs, xmlwriter.Attr{Key: "priority", Value: strconv.Itoa(priority)})
	if stopIfTrue {
		attrs = append(attrs, xmlwriter.Attr{Key: "stopIfTrue", Value: "1"})
	}
	return attrs
}

// ConditionalFormatType describes how a color scale or data bar anchor
// is calculated.
type ConditionalFormatType int

// Anchor calculations. Lowest and Highest are the defaults and track the
// range contents; the others fix the anchor at a caller supplied value.
const (
	ConditionalFormatTypeLowest ConditionalFormatType = iota
	ConditionalFormatTypeNumber
	ConditionalFormatTypePercent
	ConditionalFormatTypeFormula
	ConditionalFormatTypePercentile
	ConditionalFormatTypeHighest
)

func (t ConditionalFormatType) value() string {
	switch t {
	case ConditionalFormatTypeNumber:
		return "num"
	case ConditionalFormatTypePercent:
		return "percent"
	case ConditionalFormatTypeFormula:
		return "formula"
	case ConditionalFormatTypePercentile:
		return "percentile"
	case ConditionalFormatTypeHighest:
		return "max"
	default:
		return "min"
	}
}

// scaleRule is one anchor of a color scale or data bar.
type scaleRule struct {
	ruleType ConditionalFormatType
	value    string
}

// setScaleRule applies a caller supplied anchor if it is usable: strings
// are not comparable, percent and percentile anchors live in 0-100, and
// the lowest and highest anchors are fixed by Excel.
func setScaleRule(current scaleRule, ruleType ConditionalFormatType, value any) scaleRule {
	if _, ok := value.(string); ok {
		return current
	}
	if ruleType == ConditionalFormatTypeLowest || ruleType == ConditionalFormatTypeHighest {
		return current
	}

	s, err := conditionalFormatValue(value)
	if err != nil || s == "" {
		return current
	}

	if ruleType == ConditionalFormatTypePercent || ruleType == ConditionalFormatTypePercentile {
		if n, err := strconv.ParseFloat(s, 64); err == nil && (n < 0 || n > 100) {
			return current
		}
	}

	return scaleRule{ruleType: ruleType, value: s}
}

func writeScaleValue(w *xmlwriter.Writer, rule scaleRule) {
	w.EmptyTagAttr("cfvo", []xmlwriter.Attr{
		{Key: "type", Value: rule.ruleType.value()},
		{Key: "val", Value: rule.value},
	})
}

func writeScaleColor(w *xmlwriter.Writer, color Color) {
	w.EmptyTagAttr("color", []xmlwriter.Attr{{Key: "rgb", Value: color.argbHex()}})
}

type cfOperator int

const (
	cfBetween cfOperator = iota
	cfNotBetween
	cfEqual
	cfNotEqual
	cfGreaterThan
	cfGreaterThanOrEqual
	cfLessThan
	cfLessThanOrEqual
)

func (o cfOperator) value() string {
	switch o {
	case cfNotBetween:
		return "notBetween"
	case cfEqual:
		return "equal"
	case cfNotEqual:
		return "notEqual"
	case cfGreaterThan:
		return "greaterThan"
	case cfGreaterThanOrEqual:
		return "greaterThanOrEqual"
	case cfLessThan:
		return "lessThan"
	case cfLessThanOrEqual:
		return "lessThanOrEqual"
	default:
		return "between"
	}
}
