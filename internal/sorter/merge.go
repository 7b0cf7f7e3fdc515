package sorter

// merger owns the scratch buffer and comparison counter for one sort call.
type merger struct {
	list  []int
	temp  []int
	count int64
}

func newMerger(list []int) *merger {
	return &merger{list: list, temp: make([]int, len(list))}
}

func (m *merger) sortRange(l, r int) {
	if r-l <= 1 {
		return
	}
	mid := l + (r-l)/2
	m.sortRange(l, mid)
	m.sortRange(mid, r)
	m.merge(l, mid, r)
}

// merge combines the sorted runs [l, mid) and [mid, r). A mid at or past the
// end means the right run is empty, and r is clamped to the sequence length.
func (m *merger) merge(l, mid, r int) {
	n := len(m.list)
	if mid >= n {
		return
	}
	if r > n {
		r = n
	}
	i, j := l, mid
	for k := l; k < r; k++ {
		switch {
		case i == mid:
			m.temp[k] = m.list[j]
			j++
		case j == r:
			m.temp[k] = m.list[i]
			i++
		default:
			m.count++
			if m.list[j] < m.list[i] {
				m.temp[k] = m.list[j]
				j++
			} else {
				m.temp[k] = m.list[i]
				i++
			}
		}
	}
	copy(m.list[l:r], m.temp[l:r])
}
