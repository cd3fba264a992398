// Package statement rebuilds transaction records from the raw tables found in
// brokerage statements and derives a portfolio summary sheet from them.
//
// The core functionalities include:
//   - Row Classification: deciding whether a raw row is a header, a scrip
//     context row, a transaction or noise.
//   - Context Tracking: carrying the current scrip symbol across rows, pages
//     and tables, and forward-filling records that could not be attributed.
//   - Field Normalization: parsing amounts and the many date formats printed
//     on statements into canonical values.
//   - Symbol Cleaning: reducing the free text of a context row to a canonical
//     symbol and a secondary (exchange code) identifier.
//   - Portfolio Aggregation: summing quantities per symbol and laying out a
//     summary with live-price and XIRR formulas.
//
// The package never reads PDFs nor writes spreadsheets itself. It consumes an
// Extractor and produces into a SheetWriter; concrete adapters live in the
// pdftable, jsontable, gemini, sheet and xlsx packages.
//
// This package serves as the foundational logic for the `stx` command-line
// tool.
package statement
