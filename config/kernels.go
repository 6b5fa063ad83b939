package config

// DefaultKernelRegistry is the built-in kernel-symbol -> targetLoopsID
// table from mapperPass.cpp's addDefaultKernels, reproduced verbatim
// (every kernel assumes loop 0 except latnrm, which addDefaultKernels
// pushes loop 1 for). ResolveLoopIDs, called by mapperpass.MapFunction,
// checks this registry first and only falls back to the user-supplied
// kernel/targetLoopsID pair when the function name isn't found here,
// mirroring the original's functionWithLoop map being pre-seeded before
// param.json is read.
func DefaultKernelRegistry() map[string][]int {
	reg := map[string][]int{
		"_Z12ARENA_kerneliii":     {0},
		"_Z4spmviiPiS_S_":         {0},
		"_Z4spmvPiii":             {0},
		"adpcm_coder":             {0},
		"adpcm_decoder":           {0},
		"kernel_gemm":             {0},
		"kernel":                  {0},
		"_Z6kerneli":              {0},
		"_Z6kernelPfPi":           {0},
		"_Z6kernelPfS_":           {0},
		"_Z6kernelPfS_S_":         {0},
		"_Z6kerneliPPiS_S_S_":     {0},
		"_Z6kernelPPii":           {0},
		"_Z6kernelP7RGBType":      {0},
		"_Z6kernelP7RGBTypePi":    {0},
		"_Z6kernelP7RGBTypeP4Vect": {0},
		"fir":                  {0},
		"spmv":                 {0},
		"latnrm":               {1},
		"fft":                  {0},
		"BF_encrypt":           {0},
		"susan_smoothing":      {0},
		"_Z9LUPSolve0PPdPiS_iS_": {0},
		// LU kernel family: init, solver0/solver1, determinant, invert.
		"_Z6kernelPPdidPi":    {0},
		"_Z6kernelPPdPiS_iS_": {0},
		"_Z6kernelPPdPii":     {0},
		"_Z6kernelPPdPiiS0_":  {0},
		"_Z6kernelPiS_i":      {0},
		"_Z6kernelPfS_f":      {0},
		"_Z6kernelPiS_":       {0},
		"_Z6kernelPfS_ff":     {0},
		"_Z6kernelPiS_ii":     {0},
		"_Z6kernelPfS_if":     {0},
		"_Z6kernelPiS_S_":     {0},
	}
	return reg
}

// ResolveLoopIDs returns the targetLoopsID to use for a function named
// fn: the kernel registry's entry if present, else cfg.TargetLoopsID, else
// an error naming the function as out of scope — spec.md §8 scenario 6,
// "kernel not in registry and not in config".
func ResolveLoopIDs(cfg *Config, fn string) ([]int, error) {
	if ids, ok := DefaultKernelRegistry()[fn]; ok {
		return ids, nil
	}
	if fn == cfg.Kernel && len(cfg.TargetLoopsID) > 0 {
		return cfg.TargetLoopsID, nil
	}
	return nil, &UnknownKernelError{Function: fn}
}

// UnknownKernelError reports that fn is neither in the built-in registry
// nor named as cfg.Kernel with a non-empty targetLoopsID — the "not in
// target list" outcome spec.md §8 scenario 6 expects.
type UnknownKernelError struct {
	Function string
}

func (e *UnknownKernelError) Error() string {
	return "config: function " + e.Function + " is not in the target list"
}
