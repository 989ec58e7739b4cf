// Package cookies читает файл cookies в формате Netscape для доступа
// к роликам с возрастными и региональными ограничениями
package cookies

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Parse читает cookies из файла формата Netscape: по одной записи на
// строку, семь полей через табуляцию (домен, флаг поддоменов, путь,
// secure, срок, имя, значение). Строки-комментарии пропускаются,
// префикс #HttpOnly_ у домена допустим.
func Parse(filePath string) ([]*http.Cookie, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла cookies: %w", err)
	}
	defer file.Close()

	var result []*http.Cookie

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			httpOnly = true
			line = strings.TrimPrefix(line, "#HttpOnly_")
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			continue
		}

		expires, _ := strconv.ParseInt(fields[4], 10, 64)
		cookie := &http.Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		}
		if expires > 0 {
			cookie.Expires = time.Unix(expires, 0)
		}
		result = append(result, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения файла cookies: %w", err)
	}

	return result, nil
}

// Jar строит http.CookieJar из файла cookies. Cookies привязываются
// к своим доменам, поэтому jar можно отдать общему HTTP-клиенту.
func Jar(filePath string) (http.CookieJar, error) {
	parsed, err := Parse(filePath)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания cookie jar: %w", err)
	}

	// Группируем cookies по доменам и регистрируем их в jar
	byDomain := make(map[string][]*http.Cookie)
	for _, c := range parsed {
		domain := strings.TrimPrefix(c.Domain, ".")
		byDomain[domain] = append(byDomain[domain], c)
	}
	for domain, cs := range byDomain {
		u := &url.URL{Scheme: "https", Host: domain}
		jar.SetCookies(u, cs)
	}
	return jar, nil
}
