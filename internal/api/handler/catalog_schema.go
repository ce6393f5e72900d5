package handler

import "github.com/dars410/catalog-api/internal/api/validation"

const maxPrice = "10000000"

var AuthorSchema = validation.Schema{
	Name: "Author",
	Fields: []validation.Field{
		{Name: "firstName", Column: "first_name", Kind: validation.String, Required: true, Rules: "min=1,max=32"},
		{Name: "lastName", Column: "last_name", Kind: validation.String, Required: true, Rules: "min=1,max=32"},
		{Name: "middleName", Column: "middle_name", Kind: validation.String, Rules: "max=32"},
	},
}

var CategorySchema = titleSchema("Category")
var LevelSchema = titleSchema("Level")
var SectionSchema = titleSchema("Section")

var LanguageSchema = validation.Schema{
	Name: "Language",
	Fields: []validation.Field{
		{Name: "title", Kind: validation.String, Required: true, Rules: "min=1,max=32"},
		{Name: "code", Kind: validation.String, Required: true, Rules: "min=1,max=16"},
	},
}

var CourseSchema = validation.Schema{
	Name: "Course",
	Fields: []validation.Field{
		{Name: "title", Kind: validation.String, Required: true, Rules: "min=1,max=256"},
		{Name: "imageUrl", Column: "image_url", Kind: validation.String, Required: true, Rules: "min=1,max=128"},
		{Name: "price", Kind: validation.Int, Required: true, Rules: "min=0,max=" + maxPrice},
		{Name: "discountPrice", Column: "discount_price", Kind: validation.Int, Rules: "min=0,max=" + maxPrice},
		{Name: "authorId", Column: "author_id", Kind: validation.Int, Required: true, Rules: "gt=0"},
		{Name: "sectionId", Column: "section_id", Kind: validation.Int, Required: true, Rules: "gt=0"},
		{Name: "levelId", Column: "level_id", Kind: validation.Int, Required: true, Rules: "gt=0"},
		{Name: "categoryId", Column: "category_id", Kind: validation.Int, Required: true, Rules: "gt=0"},
		{Name: "languagesId", Column: "language_id", Kind: validation.Int, Required: true, Rules: "gt=0"},
	},
}

var BookSchema = validation.Schema{
	Name: "Book",
	Fields: []validation.Field{
		{Name: "title", Kind: validation.String, Required: true, Rules: "min=1,max=256"},
		{Name: "imageUrl", Column: "image_url", Kind: validation.String, Rules: "max=128"},
		{Name: "price", Kind: validation.Int, Rules: "min=0,max=" + maxPrice},
		{Name: "discountPrice", Column: "discount_price", Kind: validation.Int, Rules: "min=0,max=" + maxPrice},
		{Name: "authorId", Column: "author_id", Kind: validation.Int, Rules: "gt=0"},
		{Name: "levelId", Column: "level_id", Kind: validation.Int, Rules: "gt=0"},
		{Name: "categoryId", Column: "category_id", Kind: validation.Int, Rules: "gt=0"},
		{Name: "languagesId", Column: "language_id", Kind: validation.Int, Rules: "gt=0"},
	},
}

var NewsSchema = validation.Schema{
	Name: "News",
	Fields: []validation.Field{
		{Name: "title", Kind: validation.String, Required: true, Rules: "min=1,max=256"},
		{Name: "description", Kind: validation.String, Required: true, Rules: "min=1,max=4096"},
		{Name: "newsImgUrl", Column: "news_img_url", Kind: validation.String, Required: true, Rules: "min=1,max=128"},
		{Name: "date", Kind: validation.String, Required: true, Rules: "min=1,max=64"},
	},
}

func titleSchema(name string) validation.Schema {
	return validation.Schema{
		Name: name,
		Fields: []validation.Field{
			{Name: "title", Kind: validation.String, Required: true, Rules: "min=1,max=32"},
		},
	}
}
