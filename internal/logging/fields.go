package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供方法/路径/请求 ID 字段，供访问日志复用。
func RequestFields(method, path, requestID string) logrus.Fields {
	return logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	}
}
