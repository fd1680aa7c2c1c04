package sampler

// Hash mixes a pixel coordinate and a sample index into a 64 bit seed using
// the splitmix64 finalizer.
func Hash(x, y, s uint32) uint64 {
	z := uint64(x)<<32 ^ uint64(y)<<16 ^ uint64(s)
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// Return the element at position i of a pseudo-random permutation of [0, n)
// selected by seed. For a fixed seed and n, the mapping is a bijection.
//
// Uses Kensler's hash based permutation with cycle walking for n that is not
// a power of two.
func permute(i, n, seed uint32) uint32 {
	if n <= 1 {
		return 0
	}

	w := n - 1
	w |= w >> 1
	w |= w >> 2
	w |= w >> 4
	w |= w >> 8
	w |= w >> 16

	for {
		i ^= seed
		i *= 0xe170893d
		i ^= seed >> 16
		i ^= (i & w) >> 4
		i ^= seed >> 8
		i *= 0x0929eb3f
		i ^= seed >> 23
		i ^= (i & w) >> 1
		i *= 1 | seed>>27
		i *= 0x6935fa69
		i ^= (i & w) >> 11
		i *= 0x74dcb303
		i ^= (i & w) >> 2
		i *= 0x9e501cc3
		i ^= (i & w) >> 2
		i *= 0xc860a3df
		i &= w
		i ^= i >> 5
		if i < n {
			break
		}
	}
	return (i + seed) % n
}
