package main

import "strings"

// joinQuery собирает аргументы командной строки в один поисковый запрос
func joinQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
