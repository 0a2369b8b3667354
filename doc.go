// Copyright ©2024 The Sparkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparkit provides portable parallel execution policies and dense
// BLAS-1 kernels for CPU execution.
//
// Sparkit is a collection of sparse and dense linear-algebra kernels built
// on a small performance-portability layer: execution policies (range and
// team) dispatch work across a bounded goroutine pool, with a full join
// acting as the synchronization barrier between dependent phases.
//
// The root package carries the portability layer, BLAS-1 reductions and
// updates, structured error types, and scratch views. The sparse kernels
// (CSR SpMV, level-scheduled ILU(k) factorization, triangular solves, and
// matrix-market I/O) live in the sparse subpackage.
package sparkit
