package freqlat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// initialCatalogCapacity is enough for most cpufreq drivers; longer lists grow by append.
const initialCatalogCapacity = 25

// FrequencySource provides the advertised frequencies of a core as a stream of
// whitespace separated unsigned integers.
type FrequencySource interface {
	AvailableFrequencies(coreID int) (io.ReadCloser, error)
}

// Catalog holds, per core, the frequencies the driver advertises as
// selectable, in the order the source lists them (descending for cpufreq).
// It is built once and never changes; it is safe for concurrent reads.
type Catalog struct {
	freqs [][]Frequency
}

// BuildCatalog reads the advertised frequencies of cores 0..cores-1 from src.
// A core whose source cannot be opened gets an empty entry; the build never
// fails as a whole. Reading a core stops at the first token that is not an
// unsigned integer, keeping what was read before it.
func BuildCatalog(cores int, src FrequencySource) *Catalog {
	if cores < 1 {
		cores = 1
	}
	c := &Catalog{freqs: make([][]Frequency, cores)}
	for i := range cores {
		rc, err := src.AvailableFrequencies(i)
		if err != nil {
			continue
		}
		c.freqs[i] = parseFrequencies(rc)
		rc.Close()
	}
	return c
}

func parseFrequencies(r io.Reader) []Frequency {
	freqs := make([]Frequency, 0, initialCatalogCapacity)
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.ParseUint(scanner.Text(), 10, 64)
		if err != nil {
			break
		}
		freqs = append(freqs, Frequency(v))
	}
	return freqs
}

// Cores returns the number of cores covered by the catalog.
func (c *Catalog) Cores() int {
	return len(c.freqs)
}

func (c *Catalog) entry(coreID int) []Frequency {
	if coreID < 0 || coreID >= len(c.freqs) {
		panic(fmt.Sprintf("freqlat: core id %d out of range [0,%d)", coreID, len(c.freqs)))
	}
	return c.freqs[coreID]
}

// MinAvailable returns the last advertised frequency of coreID, or 0 if none.
func (c *Catalog) MinAvailable(coreID int) Frequency {
	fs := c.entry(coreID)
	if len(fs) == 0 {
		return 0
	}
	return fs[len(fs)-1]
}

// MaxAvailable returns the first advertised frequency of coreID, or 0 if none.
func (c *Catalog) MaxAvailable(coreID int) Frequency {
	fs := c.entry(coreID)
	if len(fs) == 0 {
		return 0
	}
	return fs[0]
}

// IsAvailable reports whether freq is advertised for coreID.
func (c *Catalog) IsAvailable(coreID int, freq Frequency) bool {
	for _, f := range c.entry(coreID) {
		if f == freq {
			return true
		}
	}
	return false
}

// Frequencies returns a copy of the advertised frequencies of coreID.
func (c *Catalog) Frequencies(coreID int) []Frequency {
	fs := c.entry(coreID)
	out := make([]Frequency, len(fs))
	copy(out, fs)
	return out
}

// Display writes the advertised frequencies of coreID to w. Cores without
// data produce no output.
func (c *Catalog) Display(w io.Writer, coreID int) {
	fs := c.entry(coreID)
	if len(fs) == 0 {
		return
	}
	fmt.Fprintf(w, "Frequencies for core %d : ", coreID)
	for _, f := range fs {
		fmt.Fprintf(w, "%d ", uint64(f))
	}
	fmt.Fprintln(w)
}

// Release drops every entry. Subsequent queries panic as out of range.
func (c *Catalog) Release() {
	for i := range c.freqs {
		c.freqs[i] = nil
	}
	c.freqs = nil
}
