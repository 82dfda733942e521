package matcher

import "github.com/agenthands/actnexus/internal/core/common"

// validCPF checks the two mod-11 verification digits of a CPF.
func validCPF(s string) bool {
	d := common.Digits(s)
	if len(d) != 11 || repeated(d) {
		return false
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		r := sum * 10 % 11
		if r == 10 {
			r = 0
		}
		if r != int(d[n]-'0') {
			return false
		}
	}
	return true
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// validCNPJ checks the two verification digits of a CNPJ.
func validCNPJ(s string) bool {
	d := common.Digits(s)
	if len(d) != 14 || repeated(d) {
		return false
	}
	for _, weights := range [][]int{cnpjWeights1, cnpjWeights2} {
		sum := 0
		for i, w := range weights {
			sum += int(d[i]-'0') * w
		}
		dv := 0
		if r := sum % 11; r >= 2 {
			dv = 11 - r
		}
		if dv != int(d[len(weights)]-'0') {
			return false
		}
	}
	return true
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
