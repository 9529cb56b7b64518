// Package figure builds a plotly-compatible figure of a gradient-descent
// run.
//
// Trace 0 is the loss curve. Every update then contributes a bundle of
// [TracesPerStep] traces (the point before, the point after, two dotted
// guides, the dashed secant, the update segment and the loss-change
// segment). A slider with one restyle step per bundle toggles visibility so
// that the curve and exactly one bundle are shown at a time.
package figure
