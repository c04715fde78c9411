// Package i18n loads YAML message catalogs and negotiates the request language.
//
// Catalogs are keyed by language at the root and flattened into dotted keys.
// Placeholders use the %{name} form:
//
//	//go:embed locales/*.yaml
//	var locales embed.FS
//
//	tr, err := i18n.NewTranslator(ctx,
//		i18n.NewFSAdapter(locales, "locales/*.yaml", nil),
//		i18n.WithDefaultLanguage("en"),
//	)
//
//	r.Use(i18n.Middleware(tr))
//	msg := tr.Tc(r.Context(), "auth.password_min", "min", 8)
//
// Language resolution order is the lang query parameter, the lang cookie,
// then Accept-Language matched with golang.org/x/text/language.
package i18n
