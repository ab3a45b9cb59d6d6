package abacus

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by workbook and worksheet operations. Call sites
// wrap these with additional context, so compare with errors.Is rather than
// equality.
var (
	// ErrRowColumnLimit indicates a row or column outside the worksheet
	// limits of 1,048,576 rows and 16,384 columns.
	ErrRowColumnLimit = errors.New("row or column exceeds Excel's worksheet limits")

	// ErrRowColumnOrder indicates a range whose first row or column is
	// greater than its last.
	ErrRowColumnOrder = errors.New("first row or column exceeds last row or column")

	// ErrSheetNameBlank indicates an empty worksheet name.
	ErrSheetNameBlank = errors.New("worksheet name cannot be blank")

	// ErrSheetNameLength indicates a worksheet name longer than Excel's
	// limit of 31 characters.
	ErrSheetNameLength = errors.New("worksheet name exceeds Excel's limit of 31 characters")

	// ErrSheetNameCharacter indicates a worksheet name containing one of
	// the characters [ ] : * ? / \ which Excel forbids.
	ErrSheetNameCharacter = errors.New(`worksheet name cannot contain the characters [ ] : * ? / \`)

	// ErrSheetNameApostrophe indicates a worksheet name starting or ending
	// with an apostrophe.
	ErrSheetNameApostrophe = errors.New("worksheet name cannot start or end with an apostrophe")

	// ErrSheetNameReused indicates two worksheets whose names are equal
	// ignoring case. Detected when the workbook is saved.
	ErrSheetNameReused = errors.New("worksheet name already in use (names are case-insensitive)")

	// ErrMaxStringLength indicates a cell string longer than Excel's limit
	// of 32,767 characters.
	ErrMaxStringLength = errors.New("string exceeds Excel's limit of 32,767 characters")

	// ErrUnknownWorksheet indicates a worksheet lookup by an unknown name
	// or out of range index.
	ErrUnknownWorksheet = errors.New("unknown worksheet name or index")

	// ErrMergeRangeSingleCell indicates an attempt to merge a single cell.
	ErrMergeRangeSingleCell = errors.New("merge range cannot be a single cell")

	// ErrMergeRangeOverlaps indicates a merge range that overlaps a
	// previous merge range.
	ErrMergeRangeOverlaps = errors.New("merge range overlaps a previous merge range")

	// ErrTableRangeOverlaps indicates a table range that overlaps a
	// previous table on the same worksheet.
	ErrTableRangeOverlaps = errors.New("table range overlaps a previous table range")

	// ErrTableNameReused indicates two tables with the same name in one
	// workbook.
	ErrTableNameReused = errors.New("table name already in use")

	// ErrMaxURLLength indicates a hyperlink longer than Excel's limit of
	// 2,080 characters.
	ErrMaxURLLength = errors.New("URL exceeds Excel's limit of 2,080 characters")

	// ErrUnknownURLType indicates a hyperlink that is not a web link, a
	// mail link, a file link, or an internal link.
	ErrUnknownURLType = errors.New("unknown URL type")

	// ErrUnknownImageType indicates image data that is not PNG, JPEG, GIF,
	// BMP, or TIFF.
	ErrUnknownImageType = errors.New("unknown or unsupported image type")

	// ErrImageDimension indicates an image with a zero width or height.
	ErrImageDimension = errors.New("image has no dimensions")

	// ErrVBAProject indicates macro data that is not an OLE compound file.
	ErrVBAProject = errors.New("VBA project is not a valid compound file")

	// ErrDatetimeRange indicates a date or time outside the range Excel
	// can represent.
	ErrDatetimeRange = errors.New("date or time outside Excel's range of 1900-01-01 to 9999-12-31")

	// ErrWorkbookEmpty indicates a save of a workbook with no worksheets.
	ErrWorkbookEmpty = errors.New("workbook must contain at least one worksheet")
)

// ParameterError reports a parameter that fails a validation rule not
// covered by a sentinel, such as an over-long tooltip or a malformed table
// name. It wraps no inner error; the message is the diagnosis.
type ParameterError struct {
	Param  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

func newParameterError(param, reason string) *ParameterError {
	return &ParameterError{Param: param, Reason: reason}
}

// PackageError reports a failure while assembling or writing the package.
// It names the part being processed so packaging problems are traceable to
// a file inside the archive.
type PackageError struct {
	Part string
	Err  error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("packaging %s: %v", e.Part, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}
