package abacus

import (
	"regexp"
	"strings"

	"github.com/xuri/efp"
)

// Formula wraps a worksheet formula string together with the write-time
// options that cannot be expressed in the string itself: a precalculated
// result for non-Excel viewers, and opt-in expansion of function name
// prefixes.
//
// Excel stores functions added after the original file format under
// prefixed names like "_xlfn.STDEV.S", and spreadsheet files written
// without the prefixes show #NAME? errors. WriteFormula accepts plain
// strings for the common case; a Formula value gives access to the rest.
type Formula struct {
	formula      string
	result       string
	expandFuture bool
	expandTable  bool
}

// NewFormula creates a formula from a string. A leading "=" and CSE array
// braces are accepted and stripped when written.
func NewFormula(formula string) Formula {
	return Formula{formula: formula}
}

// SetResult sets the result of the formula, for spreadsheet viewers that
// do not calculate. Excel recalculates on load in any case.
func (f Formula) SetResult(result string) Formula {
	f.result = result
	return f
}

// UseFutureFunctions enables automatic prefixing of post-2007 function
// names, so "=STDEV.S(B1:B5)" can be written without the "_xlfn." prefix
// Excel requires in the stored file.
func (f Formula) UseFutureFunctions() Formula {
	f.expandFuture = true
	return f
}

// UseTableFunctions enables rewriting of structured table "@" references
// to the "[#This Row]," form stored in the file.
func (f Formula) UseTableFunctions() Formula {
	f.expandTable = true
	return f
}

// dynamicFunctions are the Excel 365 functions that spill results into a
// dynamic range. Cells holding one need the dynamic array cell metadata.
var dynamicFunctions = map[string]bool{
	"ANCHORARRAY": true,
	"BYCOL":       true,
	"BYROW":       true,
	"CHOOSECOLS":  true,
	"CHOOSEROWS":  true,
	"DROP":        true,
	"EXPAND":      true,
	"FILTER":      true,
	"HSTACK":      true,
	"LAMBDA":      true,
	"MAKEARRAY":   true,
	"MAP":         true,
	"RANDARRAY":   true,
	"REDUCE":      true,
	"SCAN":        true,
	"SEQUENCE":    true,
	"SINGLE":      true,
	"SORT":        true,
	"SORTBY":      true,
	"SWITCH":      true,
	"TAKE":        true,
	"TEXTSPLIT":   true,
	"TOCOL":       true,
	"TOROW":       true,
	"UNIQUE":      true,
	"VSTACK":      true,
	"WRAPCOLS":    true,
	"WRAPROWS":    true,
	"XLOOKUP":     true,
}

// isDynamic reports whether the formula calls a dynamic array function.
// The formula is tokenized rather than searched so that function names
// inside string literals or sheet names don't trigger a match.
func (f Formula) isDynamic() bool {
	parser := efp.ExcelParser()

	for _, token := range parser.Parse(strings.TrimPrefix(f.formula, "=")) {
		if token.TType != efp.TokenTypeFunction || token.TSubType != efp.TokenSubTypeStart {
			continue
		}

		name := strings.TrimPrefix(token.TValue, "_xlfn.")
		name = strings.TrimPrefix(name, "_xlws.")
		if dynamicFunctions[strings.ToUpper(name)] {
			return true
		}
	}

	return false
}

// Dynamic array functions stored under "_xlfn." alone, and the two stored
// under "_xlfn._xlws.".
var (
	xlfnRe = regexp.MustCompile(`\b(ANCHORARRAY|BYCOL|BYROW|CHOOSECOLS|CHOOSEROWS|DROP|EXPAND|HSTACK|LAMBDA|MAKEARRAY|MAP|RANDARRAY|REDUCE|SCAN|SEQUENCE|SINGLE|SORTBY|SWITCH|TAKE|TEXTSPLIT|TOCOL|TOROW|UNIQUE|VSTACK|WRAPCOLS|WRAPROWS|XLOOKUP)\(`)

	xlwsRe = regexp.MustCompile(`\b(FILTER|SORT)\(`)

	futureRe = regexp.MustCompile(`\b(ACOTH|ACOT|AGGREGATE|ARABIC|ARRAYTOTEXT|BASE|BETA.DIST|BETA.INV|BINOM.DIST.RANGE|BINOM.DIST|BINOM.INV|BITAND|BITLSHIFT|BITOR|BITRSHIFT|BITXOR|CEILING.MATH|CEILING.PRECISE|CHISQ.DIST.RT|CHISQ.DIST|CHISQ.INV.RT|CHISQ.INV|CHISQ.TEST|COMBINA|CONCAT|CONFIDENCE.NORM|CONFIDENCE.T|COTH|COT|COVARIANCE.P|COVARIANCE.S|CSCH|CSC|DAYS|DECIMAL|ERF.PRECISE|ERFC.PRECISE|EXPON.DIST|F.DIST.RT|F.DIST|F.INV.RT|F.INV|F.TEST|FILTERXML|FLOOR.MATH|FLOOR.PRECISE|FORECAST.ETS.CONFINT|FORECAST.ETS.SEASONALITY|FORECAST.ETS.STAT|FORECAST.ETS|FORECAST.LINEAR|FORMULATEXT|GAMMA.DIST|GAMMA.INV|GAMMALN.PRECISE|GAMMA|GAUSS|HYPGEOM.DIST|IFNA|IFS|IMCOSH|IMCOT|IMCSCH|IMCSC|IMSECH|IMSEC|IMSINH|IMTAN|ISFORMULA|ISOMITTED|ISOWEEKNUM|LET|LOGNORM.DIST|LOGNORM.INV|MAXIFS|MINIFS|MODE.MULT|MODE.SNGL|MUNIT|NEGBINOM.DIST|NORM.DIST|NORM.INV|NORM.S.DIST|NORM.S.INV|NUMBERVALUE|PDURATION|PERCENTILE.EXC|PERCENTILE.INC|PERCENTRANK.EXC|PERCENTRANK.INC|PERMUTATIONA|PHI|POISSON.DIST|QUARTILE.EXC|QUARTILE.INC|QUERYSTRING|RANK.AVG|RANK.EQ|RRI|SECH|SEC|SHEETS|SHEET|SKEW.P|STDEV.P|STDEV.S|T.DIST.2T|T.DIST.RT|T.DIST|T.INV.2T|T.INV|T.TEST|TEXTAFTER|TEXTBEFORE|TEXTJOIN|UNICHAR|UNICODE|VALUETOTEXT|VAR.P|VAR.S|WEBSERVICE|WEIBULL.DIST|XMATCH|XOR|Z.TEST)\(`)
)

// expand returns the formula as stored in the file: leading "=" and CSE
// braces stripped, dynamic array functions prefixed, and, when enabled,
// future function and table reference rewrites applied.
func (f Formula) expand(globalExpandFuture bool) string {
	formula := f.formula

	formula = strings.TrimPrefix(formula, "{")
	formula = strings.TrimPrefix(formula, "=")
	formula = strings.TrimSuffix(formula, "}")

	// The user has already prefixed the function names.
	if strings.Contains(formula, "_xlfn.") {
		return formula
	}

	formula = xlfnRe.ReplaceAllString(formula, "_xlfn.${1}(")
	formula = xlwsRe.ReplaceAllString(formula, "_xlfn._xlws.${1}(")

	if f.expandFuture || globalExpandFuture {
		formula = futureRe.ReplaceAllString(formula, "_xlfn.${1}(")
	}

	if f.expandTable {
		formula = strings.ReplaceAll(formula, "@", "[#This Row],")
	}

	return formula
}
