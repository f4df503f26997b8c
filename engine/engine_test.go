package engine

import (
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/coregx/hashcrack/digest"
	"github.com/coregx/hashcrack/eytzinger"
)

// TestCandidate tests zero-padded decimal formatting.
func TestCandidate(t *testing.T) {
	tests := []struct {
		n      uint64
		length int
		want   string
	}{
		{0, 1, "0"},
		{0, 3, "000"},
		{7, 3, "007"},
		{23, 2, "23"},
		{99, 2, "99"},
		{12345, 5, "12345"},
		{1, 19, "0000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Candidate(tt.n, tt.length); got != tt.want {
				t.Errorf("Candidate(%d, %d) = %q, want %q", tt.n, tt.length, got, tt.want)
			}
		})
	}
}

// TestCandidateProperty tests that every candidate in a small space is a
// decimal string of the requested length.
func TestCandidateProperty(t *testing.T) {
	const length = 3
	for n := uint64(0); n < 1000; n++ {
		s := Candidate(n, length)
		if len(s) != length {
			t.Fatalf("len(Candidate(%d, %d)) = %d", n, length, len(s))
		}
		for _, c := range s {
			if c < '0' || c > '9' {
				t.Fatalf("Candidate(%d, %d) = %q is not decimal", n, length, s)
			}
		}
	}
}

// TestThreads tests the worker-count selection rule.
func TestThreads(t *testing.T) {
	tests := []struct {
		name      string
		requested uint8
		space     uint64
		want      uint8
	}{
		{"tiny space caps the pool", 8, 100, 1},
		{"one batch per worker", 4, OptimalHashesPerThread * 3, 4},
		{"space smaller than request", 200, OptimalHashesPerThread * 2, 3},
		{"single thread", 1, 1 << 40, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Threads(tt.requested, tt.space); got != tt.want {
				t.Errorf("Threads(%d, %d) = %d, want %d", tt.requested, tt.space, got, tt.want)
			}
		})
	}
}

// TestThreadsAuto tests the requested=0 path without pinning the core count.
func TestThreadsAuto(t *testing.T) {
	got := Threads(0, 1<<40)
	if got < 1 {
		t.Fatalf("Threads(0, big) = %d, want >= 1", got)
	}
	if small := Threads(0, 10); small != 1 {
		t.Errorf("Threads(0, 10) = %d, want 1", small)
	}
}

func runScenario(t *testing.T, alg digest.Algorithm, threads uint8, hexes []string) (uint64, []Result, int64) {
	t.Helper()
	targets := make([]digest.Digest, len(hexes))
	for i, h := range hexes {
		var err error
		targets[i], err = digest.Parse(alg, h)
		if err != nil {
			t.Fatalf("Parse(%q): %v", h, err)
		}
	}

	ix := eytzinger.New(targets)
	var remaining atomic.Int64
	remaining.Store(int64(len(targets)))

	p := Params{
		Algorithm: alg,
		Salt:      "abc",
		Prefix:    "1",
		Length:    2,
		Space:     100,
		Threads:   threads,
	}
	hashed, results := RunCPU(p, ix, &remaining)
	return hashed, results, remaining.Load()
}

// TestRunCPU tests the end-to-end scenarios: sha256, salt "abc", prefix "1",
// total length 3 (two variable digits, space 100).
func TestRunCPU(t *testing.T) {
	s1 := "6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090" // 123
	s2 := "97193f3095a7fc166ae10276c083735b41a36abdaac6a33e62d15b7eafa22a67" // 155
	s3 := "237dd1639d476eda038aff4b83283e3c657a9f38b50c2d7177336d344fe8992e" // 199

	tests := []struct {
		name    string
		targets []string
		want    []string
	}{
		{"S1", []string{s1}, []string{"123"}},
		{"S2", []string{s2}, []string{"155"}},
		{"S3", []string{s3}, []string{"199"}},
		{"S4 all three", []string{s1, s2, s3}, []string{"123", "155", "199"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, threads := range []uint8{1, 4, 7} {
				_, results, remaining := runScenario(t, digest.SHA256, threads, tt.targets)

				var plains []string
				for _, r := range results {
					plains = append(plains, r.Plain)
				}
				sort.Strings(plains)

				if fmt.Sprint(plains) != fmt.Sprint(tt.want) {
					t.Fatalf("threads=%d: cracked %v, want %v", threads, plains, tt.want)
				}
				if remaining != 0 {
					t.Fatalf("threads=%d: remaining = %d after full crack", threads, remaining)
				}
			}
		})
	}
}

// TestRunCPUMD5 tests the MD5 path with a target computed from the primitive.
func TestRunCPUMD5(t *testing.T) {
	want := digest.MD5.Sum("abc1", "42").Hex()
	_, results, _ := runScenario(t, digest.MD5, 3, []string{want})
	if len(results) != 1 || results[0].Plain != "142" {
		t.Fatalf("results = %+v, want one hit 142", results)
	}
	if results[0].Digest.Hex() != want {
		t.Fatalf("hit digest = %s, want %s", results[0].Digest.Hex(), want)
	}
}

// TestRunCPURemainder tests that the division remainder lands in the last
// worker's range: with 7 workers over 100 candidates the tail [98, 100) is
// only covered by the clamp.
func TestRunCPURemainder(t *testing.T) {
	want := digest.SHA256.Sum("abc1", "99").Hex()
	_, results, _ := runScenario(t, digest.SHA256, 7, []string{want})
	if len(results) != 1 || results[0].Plain != "199" {
		t.Fatalf("results = %+v, want one hit 199", results)
	}
}

// TestRunCPUZeroCandidate tests that candidate 0 is searched.
func TestRunCPUZeroCandidate(t *testing.T) {
	want := digest.SHA256.Sum("abc1", "00").Hex()
	_, results, _ := runScenario(t, digest.SHA256, 4, []string{want})
	if len(results) != 1 || results[0].Plain != "100" {
		t.Fatalf("results = %+v, want one hit 100", results)
	}
}

// TestRunCPUNoTargets tests the empty index: no hits, full enumeration.
func TestRunCPUNoTargets(t *testing.T) {
	ix := eytzinger.New(nil)
	var remaining atomic.Int64

	p := Params{Algorithm: digest.SHA256, Salt: "abc", Prefix: "1", Length: 2, Space: 100, Threads: 2}
	hashed, results := RunCPU(p, ix, &remaining)
	if len(results) != 0 {
		t.Fatalf("results = %+v, want none", results)
	}
	// remaining started at zero, so workers may stop at the first poll
	// boundary; with a space this small there is no boundary to hit.
	if hashed != 100 {
		t.Fatalf("hashed = %d, want 100", hashed)
	}
}

// TestRunCPUMissingTarget tests a target outside the space: everything is
// hashed, nothing matches, remaining stays positive.
func TestRunCPUMissingTarget(t *testing.T) {
	miss := digest.SHA256.Sum("something", "else").Hex()
	hashed, results, remaining := runScenario(t, digest.SHA256, 4, []string{miss})
	if len(results) != 0 {
		t.Fatalf("results = %+v, want none", results)
	}
	if remaining != 1 {
		t.Fatalf("remaining = %d, want 1", remaining)
	}
	if hashed != 100 {
		t.Fatalf("hashed = %d, want 100", hashed)
	}
}

// TestRunCPUEarlyTermination tests that once the last target is cracked,
// every worker stops within one poll batch instead of draining its range.
func TestRunCPUEarlyTermination(t *testing.T) {
	target := digest.SHA256.Sum("abc", "000005")
	ix := eytzinger.New([]digest.Digest{target})

	var remaining atomic.Int64
	remaining.Store(1)

	p := Params{
		Algorithm: digest.SHA256,
		Salt:      "abc",
		Prefix:    "",
		Length:    6,
		Space:     1_000_000,
		Threads:   2,
	}
	hashed, results := RunCPU(p, ix, &remaining)
	if len(results) != 1 || results[0].Plain != "000005" {
		t.Fatalf("results = %+v, want one hit 000005", results)
	}
	// The hit lands in the first batch of worker 0; both workers bail at
	// their next poll boundary, far short of the million-candidate space.
	if hashed > 3*OptimalHashesPerThread {
		t.Fatalf("hashed = %d, want early termination within poll cadence", hashed)
	}
}

// TestRunCPUCancel tests the explicit cancellation atomic on a space large
// enough to cross poll boundaries.
func TestRunCPUCancel(t *testing.T) {
	ix := eytzinger.New(nil)
	var remaining atomic.Int64
	remaining.Store(1)

	var cancel atomic.Bool
	cancel.Store(true)

	p := Params{
		Algorithm: digest.SHA256,
		Salt:      "abc",
		Prefix:    "",
		Length:    6,
		Space:     1_000_000,
		Threads:   2,
		Cancel:    &cancel,
	}
	hashed, _ := RunCPU(p, ix, &remaining)
	// Each worker stops at its first poll boundary.
	if hashed > 2*OptimalHashesPerThread {
		t.Fatalf("hashed = %d, want at most %d after pre-set cancel", hashed, 2*OptimalHashesPerThread)
	}
}
