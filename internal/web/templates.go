package web

const indexTemplate = "index"

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>{{ .Title }}</title>
</head>
<body>
    <h1>{{ .Title }}</h1>
    <form action="/" method="post">
        <input type="text" name="question" placeholder="Ask me a question" value="{{ .Question }}" autofocus>
        <input type="submit" value="Send">
    </form>
    {{ if .Response }}
    <p>Response:</p>
    <pre>{{ .Response }}</pre>
    {{ end }}
</body>
</html>
`
