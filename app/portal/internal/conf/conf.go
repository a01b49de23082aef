package conf

type Bootstrap struct {
	Server   *Server
	Insight  *Insight
	Schedule *Schedule
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Schedule 定时任务，Regenerate 为 cron 表达式，为空表示不启用
type Schedule struct {
	Regenerate string `json:"regenerate"`
}

type Insight struct {
	Llm         *LLM         `json:"llm"`
	Narrative   *Narrative   `json:"narrative"`
	Places      *Places      `json:"places"`
	Venues      *Venues      `json:"venues"`
	Recommend   *Recommend   `json:"recommend"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Narrative struct {
	Renderer string `json:"renderer"`
}

type Places struct {
	Provider  string     `json:"provider"`
	Nominatim *Nominatim `json:"nominatim"`
	Catalog   *Catalog   `json:"catalog"`
}

type Nominatim struct {
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	Timeout   int32  `json:"timeout"`
}

type Catalog struct {
	File string `json:"file"`
}

type Venues struct {
	MaxResults     int32   `json:"max_results"`
	RadiusKm       float64 `json:"radius_km"`
	TimeoutSeconds int32   `json:"timeout_seconds"`
	CacheSize      int32   `json:"cache_size"`
}

type Recommend struct {
	PerAttribute int32 `json:"per_attribute"`
	Limit        int32 `json:"limit"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps     int32 `json:"qps"`
	Rpm     int32 `json:"rpm"`
	Workers int32 `json:"workers"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
