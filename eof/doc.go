// Package eof extracts empirical orthogonal functions (principal component
// modes) from a flattened field.
//
// Decompose removes the temporal mean of every valid cell and factorizes the
// centred (time x cell) matrix with a thin singular value decomposition. The
// right singular vectors are the eigenvectors of the cell covariance matrix;
// they are returned as unit-norm spatial patterns with missing values
// reinstated outside the decomposed cells.
//
// # Polarity
//
// The sign of an eigenvector is arbitrary. Callers that need a stable polarity
// apply it explicitly with Orient or the WithReference option, for example by
// requiring a positive inner product with a reference anomaly pattern.
//
// # Usage
//
//	m, err := transcode.Flatten(sst)
//	if err != nil {
//		return err
//	}
//	modes, err := eof.Decompose(m, 10)
//	if err != nil {
//		return err
//	}
//	pdo := modes.Modes[0].Pattern
package eof
