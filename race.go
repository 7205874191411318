// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mpmc

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent stress tests, whose acquire/release
// slot publication triggers false positives in the detector.
const RaceEnabled = true
