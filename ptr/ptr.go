// Package ptr has helpers for taking the address of literals, mostly for
// filling optional struct fields in tests.
package ptr

func Int(i int) *int {
	return &i
}

func String(s string) *string {
	return &s
}
