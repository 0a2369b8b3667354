// Copyright ©2024 The Sparkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse implements compressed-row sparse kernels: SpMV,
// level-scheduled incomplete LU factorization (ILU(k)), triangular solves,
// and matrix-market I/O.
//
// The centerpiece is the ILU(k) factorization split into a pattern-only
// symbolic phase and a value-only numeric phase. The symbolic phase assigns
// every row to a scheduling level such that rows within a level share no
// dependency; the numeric phase then factors level by level, rows within a
// level in parallel, with a full barrier between levels. A Handle owns the
// schedule and survives repeated numeric factorizations when only the
// matrix values change.
package sparse
