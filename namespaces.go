package abacus

// XML namespaces shared by the package part writers.
const (
	nsMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsOfficeRel     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRel    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsMicrosoftRel  = "http://schemas.microsoft.com/office/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsSpreadsheetDr = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	nsDocPropsVT    = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	nsExtProps      = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsCustomProps   = "http://schemas.openxmlformats.org/officeDocument/2006/custom-properties"
	nsCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDublinCore    = "http://purl.org/dc/elements/1.1/"
	nsDCTerms       = "http://purl.org/dc/terms/"
	nsDCMIType      = "http://purl.org/dc/dcmitype/"
	nsXSI           = "http://www.w3.org/2001/XMLSchema-instance"
	nsMarkupCompat  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	nsSpreadsheetAC = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac"
	nsXLRichData    = "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata"
	nsXDA           = "http://schemas.microsoft.com/office/spreadsheetml/2017/dynamicarray"
)
