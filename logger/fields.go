package logger

import (
	"time"

	"go.uber.org/zap"
)

func Entity(v string) zap.Field {
	return zap.String("entity", v)
}

func EntityID(v string) zap.Field {
	return zap.String("entity_id", v)
}

// AssetRef is the full locator of a stored image.
func AssetRef(v string) zap.Field {
	return zap.String("asset_ref", v)
}

func AssetKey(v string) zap.Field {
	return zap.String("asset_key", v)
}

func Username(v string) zap.Field {
	return zap.String("username", v)
}

func Method(v string) zap.Field {
	return zap.String("method", v)
}

func Path(v string) zap.Field {
	return zap.String("path", v)
}

func Status(v int) zap.Field {
	return zap.Int("status", v)
}

func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}
