// schedulability.go - Liu & Layland rate-monotonic least-upper-bound table
//
// The original C source compares a float64 utilization sum against a
// float64 table. SPEC_FULL.md §4.4 and the REDESIGN FLAGS call for
// fixed-point arithmetic instead, so the kernel carries no FPU state. Both
// the bound table and the utilization accumulator are scaled by
// fixedPointScale (1,000,000) and compared as plain uint64s.
package main

const fixedPointScale = 1_000_000

// rmBoundScaled[n] = n * (2^(1/n) - 1) * fixedPointScale, rounded to the
// nearest integer, for n >= 1, and 0 for n == 0 (the least-upper-bound for
// zero tasks is trivially met). Values beyond n=31 are never needed: the TCB
// pool only holds 31 non-idle priorities.
var rmBoundScaled = [numPriorities]uint64{
	0,
	1_000_000,
	828_427,
	779_763,
	756_828,
	743_492,
	734_772,
	728_627,
	724_062,
	720_538,
	717_735,
	715_452,
	713_557,
	711_959,
	710_593,
	709_412,
	708_381,
	707_472,
	706_666,
	705_946,
	705_298,
	704_713,
	704_182,
	703_698,
	703_254,
	702_846,
	702_469,
	702_121,
	701_798,
	701_497,
	701_217,
	700_955,
}

// utilizationScaled returns floor(computation * fixedPointScale / period),
// the fixed-point equivalent of C/T for one task.
func utilizationScaled(computation, period uint32) uint64 {
	return uint64(computation) * fixedPointScale / uint64(period)
}
