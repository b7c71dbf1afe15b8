package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/infrastructure/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MQTT主题，hub通过通配符段上报自身ID
const (
	TopicHubAlerts = "hubs/+/alerts"
	TopicHubStatus = "hubs/+/status"
)

// 告警去重窗口，窗口内同一hub的同一消息只入库一次
const alertDedupeWindow = 5 * time.Minute

// InterfaceAlertIngestService defines the alert ingestion service interface
type InterfaceAlertIngestService interface {
	Connect() error
	Disconnect()
	SubscribeToTopics() error
	IsHealthy() bool
}

// AlertIngestService 订阅hub遥测主题，将告警与状态变更落库
type AlertIngestService struct {
	Store        ingestStore
	Config       *config.Config
	RedisService InterfaceRedisService
	Client       mqtt.Client

	topicHandlers map[string]mqtt.MessageHandler
}

// ingestStore 抽象遥测写入，gorm实现之外还可注入内存实现
type ingestStore interface {
	CreateAlert(alert *models.Alert) error
	UpdateHubStatus(hubID uint, status string) (int64, error)
}

type gormIngestStore struct {
	db *gorm.DB
}

func (g *gormIngestStore) CreateAlert(alert *models.Alert) error {
	return g.db.Create(alert).Error
}

func (g *gormIngestStore) UpdateHubStatus(hubID uint, status string) (int64, error) {
	result := g.db.Model(&models.Hub{}).
		Where("hub_id = ?", hubID).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// hubAlertPayload 是hub告警上报的消息体
type hubAlertPayload struct {
	Message string `json:"message"`
}

// hubStatusPayload 是hub状态上报的消息体
type hubStatusPayload struct {
	Status string `json:"status"`
}

// NewAlertIngestService 创建一个新的告警接入服务实现
func NewAlertIngestService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceAlertIngestService {
	service := &AlertIngestService{
		Store:        &gormIngestStore{db: db},
		Config:       cfg,
		RedisService: redisService,
	}

	// 设置MQTT客户端
	service.setupMQTTClient()

	// 设置主题处理程序
	service.setupTopicHandlers()

	return service
}

// setupMQTTClient 设置MQTT客户端
func (s *AlertIngestService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s-%d", s.Config.MQTTClientID, uuid.New().String()[:8], time.Now().UnixNano()))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	opts.SetDefaultPublishHandler(func(client mqtt.Client, msg mqtt.Message) {
		log.Printf("[MQTT] 收到未处理的消息: topic=%s", msg.Topic())
	})

	// 添加用户名和密码
	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	// 添加TLS配置，支持SSL连接
	if strings.HasPrefix(s.Config.MQTTBrokerURL, "ssl://") || strings.HasPrefix(s.Config.MQTTBrokerURL, "tls://") || s.Config.MQTTSSLEnabled {
		log.Println("[MQTT] 使用TLS连接")
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true, // 默认跳过验证，如有CA证书则使用
		}

		if s.Config.MQTTCACertPath != "" {
			log.Printf("[MQTT] 使用CA证书: %s", s.Config.MQTTCACertPath)
		}

		opts.SetTLSConfig(tlsConfig)
	}

	// 设置连接丢失回调
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("[MQTT] 连接丢失: %v", err)
	})

	// 设置连接建立回调
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Println("[MQTT] 成功连接到", s.Config.MQTTBrokerURL)

		// 订阅主题
		if err := s.SubscribeToTopics(); err != nil {
			log.Printf("[MQTT] 订阅主题失败: %v", err)
		}
	})

	// 设置重连回调
	opts.SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
		log.Println("[MQTT] 正在尝试重连...")
	})

	// 创建客户端
	s.Client = mqtt.NewClient(opts)
}

// setupTopicHandlers 设置主题处理程序
func (s *AlertIngestService) setupTopicHandlers() {
	s.topicHandlers = map[string]mqtt.MessageHandler{
		TopicHubAlerts: s.handleHubAlert,
		TopicHubStatus: s.handleHubStatus,
	}
}

// Connect 连接到MQTT服务器，带有重试机制
func (s *AlertIngestService) Connect() error {
	log.Printf("[MQTT] 正在连接到 %s...", s.Config.MQTTBrokerURL)

	if s.Client.IsConnected() {
		return nil
	}

	// 添加最大重试次数和指数退避策略
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			log.Printf("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
			return nil
		}

		err = token.Error()
		backoffTime := time.Duration(1<<uint(i)) * time.Second // 指数退避: 1s, 2s, 4s, 8s, 16s
		log.Printf("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, maxRetries, err, backoffTime)
		time.Sleep(backoffTime)
	}

	return fmt.Errorf("[MQTT] 连接失败，已尝试 %d 次: %v", maxRetries, err)
}

// Disconnect 断开与MQTT服务器的连接
func (s *AlertIngestService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// SubscribeToTopics 订阅相关主题
func (s *AlertIngestService) SubscribeToTopics() error {
	qos := byte(s.Config.MQTTQoS)

	for topic, handler := range s.topicHandlers {
		if token := s.Client.Subscribe(topic, qos, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("订阅主题失败 [%s]: %v", topic, token.Error())
		}
		log.Printf("[MQTT] 已订阅主题: %s", topic)
	}
	return nil
}

// IsHealthy 报告MQTT连接状态，用于健康检查
func (s *AlertIngestService) IsHealthy() bool {
	return s.Client != nil && s.Client.IsConnected()
}

// handleHubAlert 处理hub告警消息，去重后入库
func (s *AlertIngestService) handleHubAlert(client mqtt.Client, msg mqtt.Message) {
	hubID, ok := hubIDFromTopic(msg.Topic())
	if !ok {
		log.Printf("[MQTT] 无法从主题解析hub ID: %s", msg.Topic())
		return
	}

	var payload hubAlertPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil || payload.Message == "" {
		log.Printf("[MQTT] 告警消息体无效: topic=%s err=%v", msg.Topic(), err)
		return
	}

	// Redis去重，Redis不可用时退化为直接入库
	if s.RedisService != nil {
		first, err := s.RedisService.MarkAlertSeen(hubID, payload.Message, alertDedupeWindow)
		if err != nil {
			log.Printf("[MQTT] 告警去重检查失败: %v", err)
		} else if !first {
			return
		}
	}

	alert := models.Alert{
		HubID:   hubID,
		Message: payload.Message,
		Active:  true,
	}
	if err := s.Store.CreateAlert(&alert); err != nil {
		log.Printf("[MQTT] 告警入库失败: hub=%d err=%v", hubID, err)
		return
	}
	log.Printf("[MQTT] 已记录告警: hub=%d message=%s", hubID, payload.Message)
}

// handleHubStatus 处理hub状态消息，更新hub状态字段
func (s *AlertIngestService) handleHubStatus(client mqtt.Client, msg mqtt.Message) {
	hubID, ok := hubIDFromTopic(msg.Topic())
	if !ok {
		log.Printf("[MQTT] 无法从主题解析hub ID: %s", msg.Topic())
		return
	}

	var payload hubStatusPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil || payload.Status == "" {
		log.Printf("[MQTT] 状态消息体无效: topic=%s err=%v", msg.Topic(), err)
		return
	}

	rows, err := s.Store.UpdateHubStatus(hubID, payload.Status)
	if err != nil {
		log.Printf("[MQTT] 更新hub状态失败: hub=%d err=%v", hubID, err)
		return
	}
	if rows == 0 {
		log.Printf("[MQTT] 收到未知hub的状态上报: hub=%d", hubID)
		return
	}
	log.Printf("[MQTT] 已更新hub状态: hub=%d status=%s", hubID, payload.Status)
}

// hubIDFromTopic 从 hubs/{hub_id}/... 主题中解析hub ID
func hubIDFromTopic(topic string) (uint, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[0] != "hubs" {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
