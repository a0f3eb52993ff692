package cgen

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

const messageSourceTmpl = `{{.Generated}}
#include "{{.Msg.Header}}"

#include <type_traits>

#include "{{.Msg.CommsHeader}}"
#include "{{.Internal}}"

struct {{.Msg.Type}}_
{
    {{.Msg.CommsClass}}<{{.Ns}}_c::Interface> obj;
};

extern "C" {

{{.Msg.Type}}* {{.Msg.Type}}_alloc(void)
{
    return new {{.Msg.Type}};
}

void {{.Msg.Type}}_free({{.Msg.Type}}* msg)
{
    delete msg;
}

{{.Ns}}_ErrorStatus {{.Msg.Type}}_read({{.Msg.Type}}* msg, const uint8_t** iter, size_t len)
{
    return {{.Ns}}_c::toErrorStatus(msg->obj.doRead(*iter, len));
}

{{.Ns}}_ErrorStatus {{.Msg.Type}}_write(const {{.Msg.Type}}* msg, uint8_t** iter, size_t len)
{
    return {{.Ns}}_c::toErrorStatus(msg->obj.doWrite(*iter, len));
}

size_t {{.Msg.Type}}_length(const {{.Msg.Type}}* msg)
{
    return msg->obj.doLength();
}
{{- range .Msg.Fields}}
{{- if .Optional}}

bool {{$.Msg.Type}}_has_{{.Name}}(const {{$.Msg.Type}}* msg)
{
    return msg->obj.field_{{.Name}}().doesExist();
}
{{- end}}
{{- if .IsValue}}

{{.CType}} {{$.Msg.Type}}_get_{{.Name}}(const {{$.Msg.Type}}* msg)
{
    return static_cast<{{.CType}}>(msg->obj.{{.Expr}}.getValue());
}

void {{$.Msg.Type}}_set_{{.Name}}({{$.Msg.Type}}* msg, {{.CType}} value)
{
    auto& field = msg->obj.{{.Expr}};
    using FieldType = typename std::decay<decltype(field)>::type;
    field.setValue(static_cast<typename FieldType::ValueType>(value));
}
{{- else if .IsString}}

const char* {{$.Msg.Type}}_get_{{.Name}}(const {{$.Msg.Type}}* msg)
{
    return msg->obj.{{.Expr}}.value().c_str();
}

void {{$.Msg.Type}}_set_{{.Name}}({{$.Msg.Type}}* msg, const char* value)
{
    msg->obj.{{.Expr}}.value() = value;
}
{{- else if .IsData}}

const uint8_t* {{$.Msg.Type}}_get_{{.Name}}(const {{$.Msg.Type}}* msg, size_t* len)
{
    auto& value = msg->obj.{{.Expr}}.value();
    *len = value.size();
    return value.data();
}

void {{$.Msg.Type}}_set_{{.Name}}({{$.Msg.Type}}* msg, const uint8_t* data, size_t len)
{
    msg->obj.{{.Expr}}.value().assign(data, data + len);
}
{{- end}}
{{- end}}

} // extern "C"
`

type messageSourceData struct {
	Generated string
	Ns        string
	Internal  string
	Msg       cMessage
}

func generateMessageSource(logger *slog.Logger, w *gen.Writer, s *gen.Schema, msg cMessage, generated string) error {
	data := messageSourceData{
		Generated: generated,
		Ns:        s.MainNamespace(),
		Internal:  internalHeaderPath(s),
		Msg:       msg,
	}

	t := template.Must(template.New("message.cpp").Funcs(tplFuncs()).Parse(messageSourceTmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("exec message source tmpl: %w", err)
	}

	// Write failures are collected by the writer.
	_ = w.Write(msg.Source, buf.Bytes())
	logger.Debug("Generated message source", "message", msg.Type, "file", msg.Source)
	return nil
}
