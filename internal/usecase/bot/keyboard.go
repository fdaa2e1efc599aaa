package bot

import (
	"strconv"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/usecase/session"
)

// backToken returns from an option menu to the category menu.
const backToken = "b"

func mark(label string, selected bool) string {
	if selected {
		return label + " " + checkMark
	}
	return label
}

// monthKeyboard lists months in ascending order, one per row, as m:<i>.
func monthKeyboard(s *session.Session) [][]Button {
	months := s.Catalog.Months()
	rows := make([][]Button, 0, len(months))
	for i, m := range months {
		token := "m:" + strconv.Itoa(i)
		s.Bind(token, session.Target{Kind: session.TargetMonth, Category: domain.MonthCategory, Label: m})
		rows = append(rows, []Button{{Label: mark(m, s.Selection.Has(domain.MonthCategory, m)), Token: token}})
	}
	return rows
}

// tagsKeyboard lists categories in ascending order as t:<i>.
func tagsKeyboard(s *session.Session) [][]Button {
	cats := s.Tags.Categories()
	rows := make([][]Button, 0, len(cats))
	for i, c := range cats {
		token := "t:" + strconv.Itoa(i)
		s.Bind(token, session.Target{Kind: session.TargetCategory, Category: c})
		rows = append(rows, []Button{{Label: c, Token: token}})
	}
	return rows
}

// optionsKeyboard lists options of a category as o:<i>:<j>, followed by a back button.
func optionsKeyboard(s *session.Session, category string) [][]Button {
	ci := 0
	for i, c := range s.Tags.Categories() {
		if c == category {
			ci = i
			break
		}
	}

	opts := s.Tags.Options(category)
	rows := make([][]Button, 0, len(opts)+1)
	for j, o := range opts {
		token := "o:" + strconv.Itoa(ci) + ":" + strconv.Itoa(j)
		s.Bind(token, session.Target{Kind: session.TargetOption, Category: category, Label: o})
		rows = append(rows, []Button{{Label: mark(o, s.Selection.Has(category, o)), Token: token}})
	}
	return append(rows, []Button{{Label: textBack, Token: backToken}})
}
