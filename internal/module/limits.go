package module

// Structural limits enforced at load time. These bound worst-case
// allocation from a hostile container; none of them are part of the wire
// format itself.
const (
	MaxTypes     = 1 << 16
	MaxImports   = 1 << 16
	MaxFunctions = 1 << 20
	MaxGlobals   = 1 << 16
	MaxExports   = 1 << 16
	MaxDataSegs  = 1 << 16
	MaxDataBytes = 256 << 20 // 256 MiB per segment; a segment must also fit the initial memory
	MaxRegisters = 256
)
