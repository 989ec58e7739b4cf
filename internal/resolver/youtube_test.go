package resolver

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kkdai/youtube/v2"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Обычное название", "Обычное название"},
		{`Трек: "лучший" / худший`, "Трек_ _лучший_ _ худший"},
		{"  с пробелами  ", "с пробелами"},
		{"a<b>c|d?e*f", "a_b_c_d_e_f"},
	}

	for _, tt := range tests {
		if got := sanitizeFileName(tt.input); got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, ожидалось %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeFileNameLength(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "abcde"
	}

	got := sanitizeFileName(long)
	if len(got) != 150 {
		t.Errorf("длина имени %d, ожидалось 150", len(got))
	}
}

func TestSanitizeFileNameCyrillicLength(t *testing.T) {
	long := "a" + strings.Repeat("я", 200)

	got := sanitizeFileName(long)
	// Обрезка не должна ломать многобайтовые символы
	if !utf8.ValidString(got) {
		t.Fatalf("имя содержит битый UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 150 {
		t.Errorf("в имени %d рун, ожидалось 150", n)
	}
}

func TestFindBestAudioFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 249, MimeType: `audio/webm; codecs="opus"`, Bitrate: 50000, AudioChannels: 2},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioChannels: 2},
	}

	best := findBestAudioFormat(formats)
	if best == nil {
		t.Fatal("формат не найден")
	}
	if best.ItagNo != 251 {
		t.Errorf("выбран itag %d, ожидался 251", best.ItagNo)
	}
}

func TestFindBestAudioFormatPrefersM4A(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioChannels: 2},
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, AudioChannels: 2},
	}

	best := findBestAudioFormat(formats)
	if best == nil {
		t.Fatal("формат не найден")
	}
	// M4A предпочтительнее webm даже при меньшем битрейте
	if best.ItagNo != 140 {
		t.Errorf("выбран itag %d, ожидался 140", best.ItagNo)
	}
}

func TestFindBestAudioFormatEmpty(t *testing.T) {
	if got := findBestAudioFormat(youtube.FormatList{}); got != nil {
		t.Errorf("ожидался nil, получен %+v", got)
	}
}

func TestRawExtension(t *testing.T) {
	if got := rawExtension(`audio/webm; codecs="opus"`); got != ".webm" {
		t.Errorf("неверное расширение для webm: %s", got)
	}
	if got := rawExtension(`audio/mp4; codecs="mp4a.40.2"`); got != ".m4a" {
		t.Errorf("неверное расширение для mp4: %s", got)
	}
}
