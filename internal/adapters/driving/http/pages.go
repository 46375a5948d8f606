package http

import (
	"html/template"
	"net/http"
)

// page is a static browser-facing result page.
type page struct {
	Title   string
	Message string
}

var (
	pageLinked = page{
		Title:   "Todoist подключён",
		Message: "Аккаунт Todoist подключён. Вернитесь к Алисе и повторите команду.",
	}
	pageLinkInvalid = page{
		Title:   "Ссылка недействительна",
		Message: "Ссылка устарела или уже использована. Попросите Алису прислать новую.",
	}
	pageAccessDenied = page{
		Title:   "Доступ не предоставлен",
		Message: "Вы отказались предоставить доступ к Todoist. Попросите Алису прислать новую ссылку, если передумаете.",
	}
	pageProviderError = page{
		Title:   "Не удалось подключить Todoist",
		Message: "Todoist вернул ошибку авторизации. Попросите Алису прислать новую ссылку.",
	}
	pageExchangeFailed = page{
		Title:   "Не удалось подключить Todoist",
		Message: "Не удалось получить доступ к Todoist. Попробуйте ещё раз позже.",
	}
	pageInternalError = page{
		Title:   "Ошибка",
		Message: "Произошла внутренняя ошибка. Попробуйте ещё раз позже.",
	}
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>body{font-family:sans-serif;max-width:32rem;margin:4rem auto;padding:0 1rem;line-height:1.5}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

func writePage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, p)
}
