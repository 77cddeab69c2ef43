package models

import "strconv"

// NewsID — идентификатор новости в смешанном пространстве:
// локальные новости имеют числовой id, внешние — строковый,
// синтезированный из заголовка. Поиск диспетчеризуется по варианту.
type NewsID struct {
	local    int64
	external string
	isLocal  bool
}

// LocalNewsID создаёт идентификатор локальной новости.
func LocalNewsID(id int64) NewsID {
	return NewsID{local: id, isLocal: true}
}

// ExternalNewsID создаёт идентификатор внешней новости.
func ExternalNewsID(id string) NewsID {
	return NewsID{external: id}
}

// ParseNewsID классифицирует идентификатор из пути запроса:
// строка, целиком разбираемая как число, считается локальным id,
// всё остальное — синтезированным внешним.
func ParseNewsID(s string) NewsID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return LocalNewsID(n)
	}
	return ExternalNewsID(s)
}

// IsLocal сообщает, ссылается ли идентификатор на локальную новость.
func (id NewsID) IsLocal() bool { return id.isLocal }

// Local возвращает числовой id локальной новости.
func (id NewsID) Local() int64 { return id.local }

// External возвращает строковый id внешней новости.
func (id NewsID) External() string { return id.external }

func (id NewsID) String() string {
	if id.isLocal {
		return strconv.FormatInt(id.local, 10)
	}
	return id.external
}
