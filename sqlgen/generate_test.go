package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/soql/query"
)

func TestGenerate_Expressions(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSQL    string
		wantParams []int
	}{
		{
			name:    "path and escaped string",
			input:   "a.b = 'x''y'",
			wantSQL: "(`a`.`b` = 'x''y')",
		},
		{
			name:    "backslash is escaped",
			input:   `p = 'a\b'`,
			wantSQL: "(`p` = 'a\\\\b')",
		},
		{
			name:    "in and not",
			input:   "x in (1, 2) and not y is null",
			wantSQL: "((`x` IN (1, 2)) AND (NOT (`y` IS NULL)))",
		},
		{
			name:       "parameters keep text order",
			input:      "{1} + {0} * 2 > -z",
			wantSQL:    "((? + (? * 2)) > (-`z`))",
			wantParams: []int{1, 0},
		},
		{
			name:    "like and booleans",
			input:   "name like 'A%' or flag = true",
			wantSQL: "((`name` LIKE 'A%') OR (`flag` = TRUE))",
		},
		{
			name:    "null and not null",
			input:   "a is not null or b = null",
			wantSQL: "((`a` IS NOT NULL) OR (`b` = NULL))",
		},
		{
			name:    "numbers",
			input:   "x = 1.5 + 3000000000 % 7",
			wantSQL: "(`x` = (1.5 + (3000000000 % 7)))",
		},
		{
			name:    "function names are upper-cased",
			input:   "upper(name) = lower('X')",
			wantSQL: "(UPPER(`name`) = LOWER('X'))",
		},
		{
			name:    "raw passthrough",
			input:   "rawquery(NOW()) > d",
			wantSQL: "(NOW() > `d`)",
		},
		{
			name:    "exists shorthand",
			input:   "exists (Orders where total > 1)",
			wantSQL: "EXISTS (SELECT * FROM `Orders` WHERE (`total` > 1))",
		},
		{
			name:    "in subquery",
			input:   "x in (select id from T)",
			wantSQL: "(`x` IN (SELECT `id` FROM `T`))",
		},
		{
			name:    "scalar subquery",
			input:   "x = (select max(a) from T)",
			wantSQL: "(`x` = (SELECT MAX(`a`) FROM `T`))",
		},
		{
			name:    "class shorthand as operand",
			input:   "x = (T where a = 1)",
			wantSQL: "(`x` = (SELECT * FROM `T` WHERE (`a` = 1)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := query.ParseExpression(tt.input)
			require.NoError(t, err)

			stmt, err := Generate(e)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Equal(t, tt.wantParams, stmt.Params)
			assert.False(t, stmt.Query)
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`name`", quoteIdent("name"))
	assert.Equal(t, "`we``ird`", quoteIdent("we`ird"))
}

func TestGenerate_Query(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSQL string
	}{
		{
			name:    "top becomes limit",
			input:   "select top 5 distinct name as n, age from Person p where age > {0} order by name desc",
			wantSQL: "SELECT DISTINCT `name` AS `n`, `age` FROM `Person` AS `p` WHERE (`age` > ?) ORDER BY `name` DESC LIMIT 5",
		},
		{
			name:    "group by and having",
			input:   "select city, count(id) from T group by city having count(id) > 1 order by city",
			wantSQL: "SELECT `city`, COUNT(`id`) FROM `T` GROUP BY `city` HAVING (COUNT(`id`) > 1) ORDER BY `city` ASC",
		},
		{
			name:    "qualified star and several tables",
			input:   "select a.*, b.x from A a, B b where a.id = b.id",
			wantSQL: "SELECT `a`.*, `b`.`x` FROM `A` AS `a`, `B` AS `b` WHERE (`a`.`id` = `b`.`id`)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := query.ParseQuery(tt.input)
			require.NoError(t, err)

			stmt, err := Generate(q)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.True(t, stmt.Query)
		})
	}
}

func TestGenerate_Unsupported(t *testing.T) {
	for _, input := range []string{
		"Items.contains(a = 1)",
		"Items.count > 1",
		"a.soodaclass = 'X'",
		"exists (T where Lines.count = 0)",
	} {
		e, err := query.ParseExpression(input)
		require.NoError(t, err, input)
		_, err = Generate(e)
		assert.ErrorIs(t, err, query.ErrNotSupported, input)
	}

	_, err := Generate(&query.Literal{Value: uint8(1)})
	assert.ErrorIs(t, err, query.ErrNotSupported)
}

func TestValidate(t *testing.T) {
	inputs := []struct {
		text  string
		query bool
	}{
		{"a.b = 'x''y' and c in (1, 2)", false},
		{"{1} + {0} * 2 > -z", false},
		{"not (x is null) or y like 'a%'", false},
		{"exists (Orders where total > {0})", false},
		{"x = (select max(a) from T)", false},
		{"x = (T where a = 1)", false},
		{"x in (select id from T where y = (select min(y) from T))", false},
		{"select name from T where total > (select avg(total) from T)", true},
		{"select top 5 distinct name as n from Person p where age > {0} order by name desc", true},
		{"select city, count(id) from T group by city having count(id) > 1", true},
	}

	v := NewValidator()
	for _, in := range inputs {
		t.Run(in.text, func(t *testing.T) {
			var e query.Expression
			var err error
			if in.query {
				e, err = query.ParseQuery(in.text)
			} else {
				e, err = query.ParseExpression(in.text)
			}
			require.NoError(t, err)

			stmt, err := Generate(e)
			require.NoError(t, err)
			assert.NoError(t, v.Validate(stmt), stmt.SQL)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&Statement{SQL: "SELECT FROM WHERE", Query: true})
	assert.ErrorIs(t, err, ErrInvalidSQL)

	err = v.Validate(&Statement{SQL: "DELETE FROM t", Query: true})
	assert.ErrorIs(t, err, ErrInvalidSQL)

	err = v.Validate(&Statement{SQL: "(? = ?)", Params: []int{0}})
	assert.ErrorIs(t, err, ErrPlaceholderMismatch)
}
