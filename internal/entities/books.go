package entities

// Table and column names follow the existing book tracker schema, including
// the "auther" spelling, so an existing database can be pointed at directly.

type Author struct {
	ID            uint   `gorm:"primaryKey;column:id" json:"id"`
	Name          string `gorm:"column:name;uniqueIndex;size:255;not null" json:"name"`
	OpenLibraryID string `gorm:"column:o_l_id;size:64" json:"o_l_id"`
}

func (Author) TableName() string { return "auther" }

type Book struct {
	ID          uint   `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"column:book_name;size:512" json:"book_name"`
	ISBN        string `gorm:"column:book_isbn;size:64" json:"book_isbn"`
	Rating      int    `gorm:"column:rating" json:"rating"`
	Category    string `gorm:"column:category;size:128" json:"category"`
	AuthorID    uint   `gorm:"column:auther_id;index;not null" json:"auther_id"`
	ReadingDate string `gorm:"column:reading_date;size:10" json:"reading_date"` // MM/DD/YYYY
	Author      Author `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author"`
}

func (Book) TableName() string { return "book" }

type Note struct {
	ID       uint   `gorm:"primaryKey;column:id" json:"id"`
	Note     string `gorm:"column:note;type:text" json:"note"`
	BookID   uint   `gorm:"column:book_id;index;not null" json:"book_id"`
	AuthorID uint   `gorm:"column:auther_id;index" json:"auther_id"`
	Book     Book   `gorm:"foreignKey:BookID" json:"-"`
	Author   Author `gorm:"foreignKey:AuthorID" json:"-"`
}

func (Note) TableName() string { return "notes" }
