// Package textfmt converts between display names and item codes and holds the
// small formatting helpers used when building character sheets.
//
// Codes are the lower-case, punctuation-free form of a name ("Weapon Focus
// (Longsword)" becomes "weapon focus longsword"). Titles follow the casing
// rules of the sheet: minor words stay lower case and abbreviations such as
// AC, DC and HP stay upper case.
package textfmt
