// Package descent runs one-dimensional gradient descent on a [loss.Function].
//
// Every iteration is a single textbook update
//
//	w1 = w0 - lr * dJ/dw(w0)
//
// recorded as an [Update] so that callers can draw it:
//
//	d := descent.New(loss.NewConvex())
//	res, err := d.Run(ctx, descent.Config{LearningRate: 0.1, Start: -1.5, Steps: 10})
//
// A [Descender] is not safe for concurrent use.
package descent
