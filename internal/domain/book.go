package domain

import (
	"time"

	"github.com/google/uuid"
)

// Genre — жанр книги из закрытого перечисления.
// Любое другое значение отклоняется валидацией до обращения к бд.
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreHorror     Genre = "HORROR"
	GenreRomance    Genre = "ROMANCE"
	GenreMystery    Genre = "MYSTERY"
	GenreFantasy    Genre = "FANTASY"
)

// AllGenres — полный список допустимых жанров.
var AllGenres = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreHorror,
	GenreRomance,
	GenreMystery,
	GenreFantasy,
}

// Valid проверяет, входит ли жанр в перечисление.
func (g Genre) Valid() bool {
	for _, known := range AllGenres {
		if g == known {
			return true
		}
	}
	return false
}

// Book представляет модель книги в системе,
// соответствует таблице books в бд.
// Genres заполняется отдельной агрегацией по таблице book_genres.
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	CoverURL  string    `json:"cover_url,omitempty" db:"cover_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Genres    []Genre   `json:"genres,omitempty" db:"-"`
}

// BookGenre представляет связующую модель для отношения Many-to-Many
// между Book и жанрами, соответствует таблице book_genres в бд.
// Составной первичный ключ (book_id, genre) гарантирует,
// что у книги нет дубликатов жанра.
type BookGenre struct {
	BookID uuid.UUID `json:"book_id" db:"book_id"`
	Genre  Genre     `json:"genre" db:"genre"`
}

// BookDetail — детальная карточка книги: жанры, средний рейтинг
// и страница отзывов. AverageRating равен nil, когда отзывов нет.
type BookDetail struct {
	Book
	AverageRating *float64 `json:"average_rating"`
	Reviews       []Review `json:"reviews"`
}

// BookFilter — параметры выборки каталога.
// Пустой Author и пустой список Genres означают отсутствие предиката.
// Несколько жанров объединяются через OR: книге достаточно одного совпадения.
type BookFilter struct {
	Author string
	Genres []Genre
	Page   int
	Limit  int
}
