package gpu

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/coregx/hashcrack/digest"
)

//go:embed kernels/md5.cl
var md5Source string

//go:embed kernels/sha256.cl
var sha256Source string

// prefixSentinel marks the kernel source line that receives the hard-coded
// salted prefix. Any line ending in exactly this suffix is replaced
// wholesale by the generated assignments.
const prefixSentinel = "// %%PREFIX%%"

// sourceFor returns the device source template for an algorithm.
func sourceFor(alg digest.Algorithm) string {
	if alg == digest.MD5 {
		return md5Source
	}
	return sha256Source
}

// injectPrefix substitutes every sentinel line of src with one
// `value.bytes[i] = 'c';` assignment per byte of the salted prefix. The
// constant bytes end up compiled into the kernel instead of being passed
// through a buffer.
func injectPrefix(src, saltedPrefix string) string {
	var injected strings.Builder
	for i := 0; i < len(saltedPrefix); i++ {
		fmt.Fprintf(&injected, "value.bytes[%d] = '%c';", i, saltedPrefix[i])
	}

	var out strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(src, "\n"), "\n") {
		if strings.HasSuffix(line, prefixSentinel) {
			out.WriteString(injected.String())
		} else {
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}
	return out.String()
}

// buildOptions assembles the -D compile definitions for one run.
// CONST_BEGIN/CONST_END delimit the variable digit region inside the hashed
// buffer, CONST_TARGET_COUNT sizes the device-side binary search, and
// CONST_LENGTH_ON_CPU appears only when the host iterates (its absence
// selects the kernel's single-dispatch branch).
func buildOptions(saltedPrefixLen, length, targetCount int, k kernelParams) string {
	return fmt.Sprintf("-D CONST_BEGIN=%d -D CONST_END=%d -D CONST_TARGET_COUNT=%d -D %s=%d",
		saltedPrefixLen,
		saltedPrefixLen+length,
		targetCount,
		k.cpuLengthDefine(),
		k.lengthOnCPU,
	)
}
