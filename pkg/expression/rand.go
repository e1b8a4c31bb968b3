// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package expression

const (
	RAND_MULTIPLIER = 48271
	RAND_MODULUS    = 2147483647
	RAND_MAX        = RAND_MODULUS - 2
	RAND_SEED       = 19670512
)

// Rand is a Lehmer (minimal standard) generator, so that a RANDOMIZE seed
// produces the same RND() sequence on every platform.
type Rand struct {
	state uint64
}

func NewRand() *Rand {
	return &Rand{state: RAND_SEED}
}

func (r *Rand) Seed(seed uint32) {
	r.state = uint64(seed) % RAND_MODULUS

	if r.state == 0 {
		r.state = 1
	}

	// Small changes to the seed otherwise barely affect the first values
	for i := 0; i < 5; i++ {
		r.Next()
	}
}

// Next returns a value in [0, RAND_MAX].
func (r *Rand) Next() uint32 {
	r.state = (RAND_MULTIPLIER * r.state) % RAND_MODULUS
	return uint32(r.state - 1)
}

// Float returns a value in [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.Next()) / (float64(RAND_MAX) + 1)
}
