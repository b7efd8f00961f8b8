// Package frame maps decoded object graphs onto a generic tabular data
// model: typed columns, tables, and recursive values.
//
// The mapping is driven by the class attribute of each decoded node: factor
// codes become labeled Factor columns, Date and POSIXct vectors become Date
// and DateTime columns, and lists classed "data.frame" assemble into
// Tables. Unknown classes are not an error; the node passes through as its
// underlying vector type.
//
// Missing values stay explicit: every column pairs its storage with a
// per-element Missing flag derived from the wire sentinels.
package frame
