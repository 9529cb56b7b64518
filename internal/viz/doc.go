// Package viz draws gradient-descent figures in the terminal.
//
// Figures are rasterised onto a [Canvas] of braille cells, each holding a
// 2x4 grid of dots and one colour, and then styled with lipgloss:
//
//   - [Canvas]: braille dot canvas with per-cell colour
//   - [Plot]: data-space drawing of lines, dashes and markers
//   - [RenderFigure]: the visible traces of a figure as a framed string
//   - [Theme]: named colour schemes for the trace palette and chrome
package viz
