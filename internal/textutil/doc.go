// Package textutil holds small string helpers: trimming, random identifiers
// and a token-based date formatter.
//
// # Date Layouts
//
// FormatTime replaces the first run of each token with the matching field,
// zero-padded to the run's length:
//
//	y  year     m  month    d  day
//	h  hour     M  minute   s  second
//
// so "yyyy-mm-dd hh:MM:ss" renders as "2021-09-20 15:04:05" and
// "yyyy年mm月dd日" as "2021年09月20日". Runs shorter than the value are not
// truncated: "yy" still renders a four-digit year.
package textutil
