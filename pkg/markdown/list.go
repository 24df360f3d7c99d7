package markdown

import (
	"fmt"
	"strings"
)

type ListGenerator struct {
	prefix PrefixGenerator
}

type PrefixGenerator func(int) string

func GenerateList[T any](items []T, generator ListGenerator) string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, generator.prefix(i)+fmt.Sprint(item))
	}
	return strings.Join(lines, "\n")
}

func NewListGenerator(prefix PrefixGenerator) ListGenerator {
	return ListGenerator{prefix: prefix}
}

func GenerateUL[T any](items []T) string {
	return GenerateList(items, NewListGenerator(func(int) string { return "- " }))
}

func GenerateOL[T any](items []T) string {
	generator := NewListGenerator(func(i int) string { return fmt.Sprintf("%d. ", i+1) })
	return GenerateList(items, generator)
}
