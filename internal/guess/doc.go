// Package guess infers field types for the columns of a tabular file.
//
// Given a handful of preview values per column, the classifier narrows the
// list of plausible target types (id, integer, float, monetary, date,
// datetime, boolean, text, relational) and learns the column's date and
// number formats into an [Options] value. The import pass later reuses the
// learned formats through [ConvertFloatColumn] and [ConvertDateColumn] so
// every row is parsed exactly the way the preview was.
//
// # Catalog
//
// Date and date-time recognition is driven by a fixed catalog of strptime
// style patterns built once by [BuildCatalog]:
//
//	%m %d %Y   (MDY)     %m %d %y
//	%d %m %Y   (DMY)     %d %m %y
//	%Y %m %d   (YMD)     %y %m %d
//	%Y %d %m   (YDM)     %y %d %m
//
// each joined by a space, "/", "-" or nothing, and for date-times followed by
// one of six clock formats. Patterns are tried in catalog order, so an
// ambiguous value such as "01/02/2020" resolves to MDY.
//
// # Currency
//
// Numeric columns may carry a currency symbol on either side of the number
// and accountants' parentheses for negatives. Symbols are checked through a
// [CurrencyLookup] supplied by the caller; this package never touches a
// database.
//
// # Concurrency
//
// A [Catalog] is immutable once built and may be shared freely. [Options] is
// not synchronized: classify columns concurrently only with one Options per
// column.
package guess
