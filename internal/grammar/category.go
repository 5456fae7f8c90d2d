package grammar

import "strings"

// Category is the coarse syntax class a renderer colors by.
type Category string

const (
	CategoryPlain    Category = "plain"
	CategoryKeyword  Category = "keyword"
	CategoryType     Category = "type"
	CategoryFunction Category = "function"
	CategoryString   Category = "string"
	CategoryNumber   Category = "number"
	CategoryComment  Category = "comment"
	CategoryOperator Category = "operator"
	CategoryError    Category = "error"
)

var categoryNames = map[string]Category{
	string(CategoryKeyword):  CategoryKeyword,
	string(CategoryType):     CategoryType,
	string(CategoryFunction): CategoryFunction,
	string(CategoryString):   CategoryString,
	string(CategoryNumber):   CategoryNumber,
	string(CategoryComment):  CategoryComment,
	string(CategoryOperator): CategoryOperator,
	string(CategoryError):    CategoryError,
}

// chromaPrefixes is ordered longest first so KeywordType wins over Keyword.
var chromaPrefixes = []struct {
	prefix string
	cat    Category
}{
	{"KeywordConstant", CategoryNumber},
	{"KeywordType", CategoryType},
	{"Keyword", CategoryKeyword},
	{"NameFunction", CategoryFunction},
	{"NameClass", CategoryType},
	{"NameBuiltin", CategoryType},
	{"NameConstant", CategoryNumber},
	{"NameTag", CategoryKeyword},
	{"LiteralString", CategoryString},
	{"String", CategoryString},
	{"LiteralNumber", CategoryNumber},
	{"Number", CategoryNumber},
	{"Comment", CategoryComment},
	{"Operator", CategoryOperator},
	{"Punctuation", CategoryOperator},
	{"Error", CategoryError},
}

// Classify maps a token's tags onto a Category, innermost tag first. Tags from
// either backend are understood.
func Classify(tags []string) Category {
	for i := len(tags) - 1; i >= 0; i-- {
		tag := tags[i]
		if cat, ok := categoryNames[tag]; ok {
			return cat
		}
		for _, p := range chromaPrefixes {
			if strings.HasPrefix(tag, p.prefix) {
				return p.cat
			}
		}
	}
	return CategoryPlain
}
