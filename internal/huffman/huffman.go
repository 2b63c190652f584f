// Package huffman builds the binary prefix code used by hierarchical
// softmax: for each vocabulary id, a bit-code identifying the root-to-leaf
// path through the tree and a list of internal-node indices addressing rows
// of the HS output tensor.
package huffman

import "fmt"

// MaxCodeLen is the hard limit on code length. Trees that would require a
// deeper code abort construction — unreachable for realistic frequency
// distributions but enforced directly.
const MaxCodeLen = 40

// Codes holds, for every vocabulary id, its bit-code and internal-node path.
type Codes struct {
	Code    [][]uint8
	Point   [][]int32
	CodeLen []int
}

// Build constructs Huffman codes over the frequency vector count, indexed
// by vocabulary id (count[0] is the sentence-boundary token's count; it is
// not treated specially here). count must have length V >= 1.
//
// The algorithm is the classic linear-time two-pointer scheme over an
// array pre-sorted by descending frequency (the vocabulary is always in
// that order by the time this runs): one pointer scans unmerged leaves
// right-to-left, a second scans freshly built internal nodes left-to-
// right, and on each merge the two globally-smallest candidate weights are
// combined, ties favoring the leaf pointer. The pointer scheme makes the
// assignment deterministic; a general heap-based builder would still be
// optimal but would not assign the same codes.
func Build(count []uint64) (*Codes, error) {
	v := len(count)
	if v == 0 {
		return nil, fmt.Errorf("huffman: empty frequency vector")
	}
	if v == 1 {
		return &Codes{
			Code:    [][]uint8{{}},
			Point:   [][]int32{{}},
			CodeLen: []int{0},
		}, nil
	}

	size := v*2 - 1
	weight := make([]uint64, size)
	binaryCode := make([]uint8, size)
	parentNode := make([]int32, size)

	for i := 0; i < v; i++ {
		weight[i] = count[i]
	}
	for i := v; i < size; i++ {
		weight[i] = ^uint64(0) // sentinel: "infinite"
	}

	pos1 := v - 1
	pos2 := v

	for a := 0; a < v-1; a++ {
		// min1i: smallest of the two candidate leaf/internal weights.
		// Ties favor the leaf pointer.
		var min1i, min2i int
		if pos1 >= 0 && weight[pos1] <= weight[pos2] {
			min1i = pos1
			pos1--
		} else {
			min1i = pos2
			pos2++
		}
		if pos1 >= 0 && weight[pos1] <= weight[pos2] {
			min2i = pos1
			pos1--
		} else {
			min2i = pos2
			pos2++
		}

		weight[v+a] = weight[min1i] + weight[min2i]
		parentNode[min1i] = int32(v + a)
		parentNode[min2i] = int32(v + a)
		binaryCode[min2i] = 1
	}

	codes := &Codes{
		Code:    make([][]uint8, v),
		Point:   make([][]int32, v),
		CodeLen: make([]int, v),
	}

	codeBuf := make([]uint8, MaxCodeLen)
	pointBuf := make([]int32, MaxCodeLen)

	for a := 0; a < v; a++ {
		b := a
		i := 0
		for {
			codeBuf[i] = binaryCode[b]
			pointBuf[i] = int32(b)
			i++
			b = int(parentNode[b])
			if b == size-1 {
				break
			}
			if i >= MaxCodeLen {
				return nil, fmt.Errorf("huffman: code length exceeds %d for id %d", MaxCodeLen, a)
			}
		}

		code := make([]uint8, i)
		point := make([]int32, i)
		point[0] = int32(v - 2)
		for k := 0; k < i; k++ {
			code[k] = codeBuf[i-k-1]
			if k > 0 {
				point[k] = pointBuf[i-k] - int32(v)
			}
		}

		codes.Code[a] = code
		codes.Point[a] = point
		codes.CodeLen[a] = i
	}

	return codes, nil
}
