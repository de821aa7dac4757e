package schema

import (
	"fmt"
	"strings"
)

// Downloads is the fixed aggregate field appended to every query, exactly
// once, last among the selected fields.
var Downloads = Field{
	Name:      "download_count",
	Data:      "COUNT(*)",
	Aggregate: true,
}

// FieldKeys lists the catalog keys in display order.
var FieldKeys = []string{
	"project",
	"version",
	"file",
	"pyversion",
	"percent3",
	"percent2",
	"impl",
	"impl-version",
	"openssl",
	"date",
	"month",
	"year",
	"country",
	"installer",
	"installer-version",
	"setuptools-version",
	"system",
	"system-release",
	"distro",
	"distro-version",
	"cpu",
	"libc",
	"libc-version",
}

// fieldCatalog maps CLI field keys to their BigQuery column definitions
// against the public PyPI download log schema.
var fieldCatalog = map[string]Field{
	"project":   {Name: "project", Data: "file.project"},
	"version":   {Name: "version", Data: "file.version"},
	"file":      {Name: "file", Data: "file.filename"},
	"pyversion": {Name: "python_version", Data: `REGEXP_EXTRACT(details.python, r"^([^\.]+\.[^\.]+)")`},
	"percent3": {
		Name:      "percent_3",
		Data:      `ROUND(100 * SUM(CASE WHEN REGEXP_EXTRACT(details.python, r"^([^\.]+)") = "3" THEN 1 ELSE 0 END) / COUNT(*), 1)`,
		Aggregate: true,
	},
	"percent2": {
		Name:      "percent_2",
		Data:      `ROUND(100 * SUM(CASE WHEN REGEXP_EXTRACT(details.python, r"^([^\.]+)") = "2" THEN 1 ELSE 0 END) / COUNT(*), 1)`,
		Aggregate: true,
	},
	"impl":               {Name: "implementation", Data: "details.implementation.name"},
	"impl-version":       {Name: "impl_version", Data: "details.implementation.version"},
	"openssl":            {Name: "openssl_version", Data: `REGEXP_EXTRACT(details.openssl_version, r"^OpenSSL ([^ ]+) ")`},
	"date":               {Name: "download_date", Data: `FORMAT_TIMESTAMP("%Y-%m-%d", timestamp)`},
	"month":              {Name: "download_month", Data: `FORMAT_TIMESTAMP("%Y-%m", timestamp)`},
	"year":               {Name: "download_year", Data: `FORMAT_TIMESTAMP("%Y", timestamp)`},
	"country":            {Name: "country", Data: "country_code"},
	"installer":          {Name: "installer_name", Data: "details.installer.name"},
	"installer-version":  {Name: "installer_version", Data: "details.installer.version"},
	"setuptools-version": {Name: "setuptools_version", Data: "details.setuptools_version"},
	"system":             {Name: "system_name", Data: "details.system.name"},
	"system-release":     {Name: "system_release", Data: "details.system.release"},
	"distro":             {Name: "distro_name", Data: "details.distro.name"},
	"distro-version":     {Name: "distro_version", Data: "details.distro.version"},
	"cpu":                {Name: "cpu", Data: "details.cpu"},
	"libc":               {Name: "libc_name", Data: "details.libc.lib"},
	"libc-version":       {Name: "libc_version", Data: "details.libc.version"},
}

// LookupField resolves a CLI field key to its catalog entry.
func LookupField(key string) (Field, error) {
	f, ok := fieldCatalog[key]
	if !ok {
		return Field{}, fmt.Errorf("unknown field %q. Valid fields: %s", key, strings.Join(FieldKeys, ", "))
	}
	return f, nil
}

// LookupFields resolves a list of CLI field keys, preserving order.
func LookupFields(keys []string) ([]Field, error) {
	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		f, err := LookupField(key)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}
