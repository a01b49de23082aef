package conf

import (
	"testing"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigSharesDatabase(t *testing.T) {
	c := config.New(config.WithSource(file.NewSource("../../configs/config.yaml")))
	defer c.Close()
	require.NoError(t, c.Load())

	var bc Bootstrap
	require.NoError(t, c.Scan(&bc))

	require.NotNil(t, bc.Insight)
	require.NotNil(t, bc.Insight.Db)
	assert.NotEmpty(t, bc.Insight.Db.Host)
	assert.Equal(t, int32(5432), bc.Insight.Db.Port)
	require.NotNil(t, bc.Insight.Places)
	assert.Equal(t, "catalog", bc.Insight.Places.Provider)
	require.NotNil(t, bc.Server)
	assert.Equal(t, "0.0.0.0:8000", bc.Server.Http.Addr)
}
