// Package mailer 把通知队列中的消息渲染成邮件
package mailer

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[string]string{
	domain.MailShiftAssigned:  "排班系统 - 新班次通知",
	domain.MailShiftConfirmed: "排班系统 - 班次已确认",
	domain.MailShiftCancelled: "排班系统 - 班次已取消",
}

// ErrUnsupportedType 表示消息无法处理，重新入队也没有意义
var ErrUnsupportedType = errors.New("不支持的邮件类型")

type Renderer struct {
	from      string
	templates map[string]*template.Template
}

func NewRenderer(from string) (*Renderer, error) {
	r := &Renderer{from: from, templates: make(map[string]*template.Template, len(subjects))}
	for typ := range subjects {
		tmpl, err := template.ParseFS(templateFS, "templates/"+typ+".html")
		if err != nil {
			return nil, err
		}
		r.templates[typ] = tmpl
	}
	return r, nil
}

type message struct {
	Type string               `json:"type"`
	To   string               `json:"to"`
	Data domain.ShiftMailData `json:"data"`
}

// Build 解析队列消息并生成邮件
func (r *Renderer) Build(body []byte) (*mail.Msg, error) {
	var m message
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	tmpl, ok := r.templates[m.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, m.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(r.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, m.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	msg.Subject(subjects[m.Type])

	return msg, nil
}
