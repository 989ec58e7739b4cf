package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hazadus/go-trackbot/internal/library"
)

// searchURL — страница результатов поиска YouTube
const searchURL = "https://www.youtube.com/results?search_query="

// Маркеры разметки ytInitialData на странице результатов
const (
	videoMarker = `"videoRenderer":{"videoId":"`
	titleMarker = `"title":{"runs":[{"text":`
)

// Search ищет ролики по запросу и возвращает до limit кандидатов.
// Результаты вытаскиваются из ytInitialData на странице результатов:
// отдельного API поиска без ключа у YouTube нет.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]library.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к YouTube: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube ответил статусом %s", resp.Status)
	}

	// Страница результатов весит 1-2 МБ; ограничиваем чтение на всякий случай
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	candidates := parseSearchResults(string(body), limit)
	y.logger.Debug("поиск на YouTube завершен",
		zap.String("query", query),
		zap.Int("results", len(candidates)))
	return candidates, nil
}

// parseSearchResults вытаскивает пары (videoId, title) из разметки
// страницы результатов в порядке появления
func parseSearchResults(page string, limit int) []library.Candidate {
	var candidates []library.Candidate
	seen := make(map[string]bool)

	for len(candidates) < limit {
		i := strings.Index(page, videoMarker)
		if i < 0 {
			break
		}
		page = page[i+len(videoMarker):]

		j := strings.IndexByte(page, '"')
		if j < 0 {
			break
		}
		id := page[:j]
		page = page[j:]

		// Название лежит внутри того же videoRenderer — до следующего маркера
		title := ""
		k := strings.Index(page, titleMarker)
		next := strings.Index(page, videoMarker)
		if k >= 0 && (next < 0 || k < next) {
			if s, ok := readJSONString(page[k+len(titleMarker):]); ok {
				title = s
			}
		}
		if title == "" {
			title = "Без названия"
		}

		if seen[id] {
			continue
		}
		seen[id] = true

		candidates = append(candidates, library.Candidate{ID: id, Title: title})
	}
	return candidates
}

// readJSONString читает JSON-строку с начала s, учитывая экранирование
func readJSONString(s string) (string, bool) {
	if len(s) == 0 || s[0] != '"' {
		return "", false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			// strconv.Unquote не знает про JSON-экранирование слэша
			quoted := strings.ReplaceAll(s[:i+1], `\/`, `/`)
			unquoted, err := strconv.Unquote(quoted)
			if err != nil {
				return "", false
			}
			return unquoted, true
		}
	}
	return "", false
}
