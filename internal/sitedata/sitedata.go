// Package sitedata содержит наборы данных для сценариев: отрасли,
// решения, поисковые запросы и данные контактных форм.
package sitedata

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("не найдено")

type Industry struct {
	Name            string
	Path            string
	ExpectedHeading string
	// Aliases - другие написания, которые принимает IndustryByName.
	Aliases []string
}

type Solution struct {
	Name            string
	Path            string
	ExpectedHeading string
	Aliases         []string
}

type SearchQuery struct {
	Query         string
	ExpectResults bool
	MinResults    int
}

type ContactForm struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	Phone     string
	Country   string
	Message   string
}

var Industries = []Industry{
	{
		Name:            "Manufacturing",
		Path:            "/industries/manufacturing",
		ExpectedHeading: "Manufacturing",
	},
	{
		Name:            "Construction and Engineering",
		Path:            "/industries/construction-and-engineering",
		ExpectedHeading: "Construction, Engineering, Shipbuilding & Maritime",
	},
	{
		Name:            "Aerospace & Defense",
		Path:            "/industries/aerospace-and-defense",
		ExpectedHeading: "Aerospace and Defense Software",
		Aliases:         []string{"Aerospace and Defense"},
	},
	{
		Name:            "Energy Utilities and Resources",
		Path:            "/industries/energy-utilities-and-resources",
		ExpectedHeading: "Enterprise Software for Energy, Utilities and Resources",
	},
	{
		Name:            "Service Industries",
		Path:            "/industries/service-industries",
		ExpectedHeading: "Service Industry Software",
	},
	{
		Name:            "Telecommunications",
		Path:            "/industries/telecommunications",
		ExpectedHeading: "Telecommunications",
	},
}

var Solutions = []Solution{
	{
		Name:            "Enterprise Resource Planning",
		Path:            "/solutions/enterprise-resource-planning",
		ExpectedHeading: "Enterprise Resource Planning",
		Aliases:         []string{"ERP"},
	},
	{
		Name:            "Enterprise Asset Management",
		Path:            "/solutions/enterprise-asset-management",
		ExpectedHeading: "Enterprise Asset Management",
		Aliases:         []string{"EAM"},
	},
	{
		Name:            "Enterprise Service Management",
		Path:            "/solutions/enterprise-service-management",
		ExpectedHeading: "Enterprise Service Management",
		Aliases:         []string{"ESM"},
	},
	{
		Name:            "Energy & Resources Software",
		Path:            "/solutions/energy-and-resources-software",
		ExpectedHeading: "IFS Energy and Resources Software",
		Aliases:         []string{"Energy & Resources", "Energy and Resources"},
	},
}

var SearchQueries = []SearchQuery{
	{Query: "cloud", ExpectResults: true, MinResults: 3},
	{Query: "ERP", ExpectResults: true, MinResults: 2},
	{Query: "sustainability", ExpectResults: true, MinResults: 1},
	{Query: "manufacturing", ExpectResults: true, MinResults: 2},
}

var ValidContact = ContactForm{
	FirstName: "Test",
	LastName:  "User",
	Email:     "test.user@example.com",
	Company:   "Test Company",
	Phone:     "1234567890",
	Country:   "United States",
	Message:   "This is a test message from an automated browser test",
}

var InvalidContact = ContactForm{
	Email: "invalid-email",
	Phone: "abc",
}

// IndustryByName ищет отрасль по имени или псевдониму без учета регистра.
func IndustryByName(name string) (Industry, error) {
	for _, ind := range Industries {
		if matches(name, ind.Name, ind.Aliases) {
			return ind, nil
		}
	}
	return Industry{}, fmt.Errorf("отрасль %q: %w", name, ErrNotFound)
}

func SolutionByName(name string) (Solution, error) {
	for _, s := range Solutions {
		if matches(name, s.Name, s.Aliases) {
			return s, nil
		}
	}
	return Solution{}, fmt.Errorf("решение %q: %w", name, ErrNotFound)
}

func matches(query, name string, aliases []string) bool {
	query = strings.TrimSpace(query)
	if strings.EqualFold(query, name) {
		return true
	}
	for _, a := range aliases {
		if strings.EqualFold(query, a) {
			return true
		}
	}
	return false
}
