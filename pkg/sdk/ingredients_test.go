package sdk

import (
	"encoding/json"
	"testing"
)

func TestScaleIngredientAmount(t *testing.T) {
	cases := []struct {
		amount string
		factor float64
		want   string
	}{
		{"200g", 2, "400g"},
		{"1,5 EL", 2, "3 EL"},
		{"1.5 l", 0.5, "0.75 l"},
		{"3 Eier", 1.0 / 3, "1 Eier"},
		{"1 Prise", 0.333, "0.33 Prise"},
		{"etwas Salz", 3, "etwas Salz"},
		{"200g", 1, "200g"},
		{"200g", 0, "200g"},
		{"", 2, ""},
	}
	for _, tc := range cases {
		if got := ScaleIngredientAmount(tc.amount, tc.factor); got != tc.want {
			t.Errorf("ScaleIngredientAmount(%q, %v) = %q, want %q", tc.amount, tc.factor, got, tc.want)
		}
	}
}

func TestResolveImageURL(t *testing.T) {
	cases := []struct {
		image, base, want string
	}{
		{"", "/app", ""},
		{"https://cdn.example.com/a.png", "/app", "https://cdn.example.com/a.png"},
		{"HTTP://cdn.example.com/a.png", "/app", "HTTP://cdn.example.com/a.png"},
		{"/img/a.png", "/app/", "/app/img/a.png"},
		{"/img/a.png", "/", "/img/a.png"},
		{"/img/a.png", "", "/img/a.png"},
		{"img/a.png", "/app", "img/a.png"},
	}
	for _, tc := range cases {
		if got := ResolveImageURL(tc.image, tc.base); got != tc.want {
			t.Errorf("ResolveImageURL(%q, %q) = %q, want %q", tc.image, tc.base, got, tc.want)
		}
	}
}

func TestAggregateReviews(t *testing.T) {
	var reviews []Review
	if err := json.Unmarshal([]byte(`[{"stars":5},{"stars":"4"},{"stars":null},{}]`), &reviews); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	stats := AggregateReviews(reviews)
	if stats.RatingCount != 4 {
		t.Fatalf("expected 4 reviews, got %d", stats.RatingCount)
	}
	if stats.RatingAvg != 2.25 {
		t.Fatalf("expected avg 2.25, got %v", stats.RatingAvg)
	}

	if empty := AggregateReviews(nil); empty != (ReviewStats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestAggregateReviews_NonFiniteAndPaddedStars(t *testing.T) {
	cases := []struct {
		body string
		want ReviewStats
	}{
		{`[{"stars":"NaN"},{"stars":4}]`, ReviewStats{RatingAvg: 2, RatingCount: 2}},
		{`[{"stars":"Inf"},{"stars":4}]`, ReviewStats{RatingAvg: 2, RatingCount: 2}},
		{`[{"stars":"-Infinity"},{"stars":2}]`, ReviewStats{RatingAvg: 1, RatingCount: 2}},
		{`[{"stars":" 4 "}]`, ReviewStats{RatingAvg: 4, RatingCount: 1}},
		{`[{"stars":"abc"},{"stars":true},{"stars":3}]`, ReviewStats{RatingAvg: 1, RatingCount: 3}},
	}
	for _, tc := range cases {
		var reviews []Review
		if err := json.Unmarshal([]byte(tc.body), &reviews); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.body, err)
		}
		if got := AggregateReviews(reviews); got != tc.want {
			t.Errorf("AggregateReviews(%s) = %+v, want %+v", tc.body, got, tc.want)
		}
	}
}

func TestCategoriesUnmarshal(t *testing.T) {
	cases := []struct {
		body string
		want Categories
	}{
		{`"ASIATISCH"`, Categories{"ASIATISCH"}},
		{`["MAIN_COURSE","DESSERT"]`, Categories{"MAIN_COURSE", "DESSERT"}},
		{`""`, nil},
		{`null`, nil},
		{`[]`, Categories{}},
	}
	for _, tc := range cases {
		var got Categories
		if err := json.Unmarshal([]byte(tc.body), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.body, err)
		}
		if len(got) != len(tc.want) || (got == nil) != (tc.want == nil) {
			t.Fatalf("Categories(%s) = %#v, want %#v", tc.body, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("Categories(%s)[%d] = %q, want %q", tc.body, i, got[i], tc.want[i])
			}
		}
	}

	var bad Categories
	if err := json.Unmarshal([]byte(`{"a":1}`), &bad); err == nil {
		t.Fatal("expected error for object category")
	}
}

func TestIDUnmarshal(t *testing.T) {
	var ids []ID
	if err := json.Unmarshal([]byte(`[1, "abc", 42, null]`), &ids); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []ID{"1", "abc", "42", ""}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	var bad ID
	if err := json.Unmarshal([]byte(`{}`), &bad); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestMapCategoryLabels(t *testing.T) {
	got := MapCategoryLabels([]string{"DESSERT", "", "SOUP"}, map[string]string{"DESSERT": "Nachspeise"})
	if len(got) != 2 || got[0] != "Nachspeise" || got[1] != "SOUP" {
		t.Fatalf("unexpected labels: %v", got)
	}
}
