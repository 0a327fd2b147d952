// Package spacing suggests and analyzes gaps between components.
//
// Three operations are provided:
//
//   - [Manager.Suggest] compares the gaps between a candidate position and
//     its neighbours against a ladder of standard spacings and reports the
//     closest matches.
//   - [Manager.DistributeEvenly] computes the uniform gap that would space a
//     selection of three or more components evenly along its main axis.
//   - [Manager.Analyze] groups components into rows and columns, measures
//     how consistent the gaps within each group are, and flags outliers.
//
// # Confidence
//
// A suggestion's confidence is max(0, 1-|suggested-actual|/tolerance). It is
// exactly 1 when the actual gap already equals the suggested one and is
// always within [0,1].
//
// None of the operations fail: too few components simply yield empty
// results.
package spacing
