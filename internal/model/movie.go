package model

import "time"

// Movie はユーザーが所有する映画レコードを表す。
// 所有者（UserID）は常に1人で、所有者の認証済みリクエストからのみ参照・変更できる。
type Movie struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Rating    string    `json:"rating"`
	Genre     string    `json:"genre"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"created_at"`
}

// MovieField は部分更新で変更を許可するカラムの列挙。
// 値はそのままカラム名として使われるため、クライアント入力から生成してはならない。
type MovieField string

const (
	MovieFieldTitle  MovieField = "title"
	MovieFieldRating MovieField = "rating"
	MovieFieldGenre  MovieField = "genre"
)

// UpdatableMovieFields は更新対象として許可されたフィールドを固定順で返す。
func UpdatableMovieFields() []MovieField {
	return []MovieField{MovieFieldTitle, MovieFieldRating, MovieFieldGenre}
}

// MovieFields は映画の部分更新ペイロード。
// nilは「未指定」、空文字を含む非nilは「指定あり」を表す。
type MovieFields struct {
	Title  *string `json:"title"`
	Rating *string `json:"rating"`
	Genre  *string `json:"genre"`
}

// Get は指定フィールドの値と指定有無を返す。
func (f MovieFields) Get(field MovieField) (string, bool) {
	var p *string
	switch field {
	case MovieFieldTitle:
		p = f.Title
	case MovieFieldRating:
		p = f.Rating
	case MovieFieldGenre:
		p = f.Genre
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set は指定フィールドに値を設定する。許可されていないフィールドは無視する。
func (f *MovieFields) Set(field MovieField, value string) {
	v := value
	switch field {
	case MovieFieldTitle:
		f.Title = &v
	case MovieFieldRating:
		f.Rating = &v
	case MovieFieldGenre:
		f.Genre = &v
	}
}

// IsEmpty は更新対象のフィールドが1つも指定されていない場合にtrueを返す。
func (f MovieFields) IsEmpty() bool {
	return f.Title == nil && f.Rating == nil && f.Genre == nil
}

// ApplyTo は指定されたフィールドだけをbaseに上書きしたコピーを返す。
// baseは変更しない。
func (f MovieFields) ApplyTo(base Movie) Movie {
	merged := base
	if f.Title != nil {
		merged.Title = *f.Title
	}
	if f.Rating != nil {
		merged.Rating = *f.Rating
	}
	if f.Genre != nil {
		merged.Genre = *f.Genre
	}
	return merged
}
