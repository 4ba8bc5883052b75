package wire

import (
	"Rex/internal/api"
	"Rex/internal/api/config"
	"Rex/internal/api/handler"
	"Rex/internal/feed"
	"Rex/internal/job"
	"Rex/internal/pkg/cron"
	"Rex/internal/pkg/es"
	"Rex/internal/pkg/kafka"
	"Rex/internal/pkg/metadata"
	appmongo "Rex/internal/pkg/mongo"
	"Rex/internal/repository"
	"Rex/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	LinkFetcher  metadata.LinkFetcher
	Producer     kafka.EventProducer
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	// 基础仓储
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	thingRepo := repository.NewThingRepo(db)
	tagRepo := repository.NewTagRepository(db)
	interactionRepo := repository.NewInteractionRepo(db)
	recommendationRepo := repository.NewRecommendationRepo(db)
	commentRepo := appmongo.NewCommentRepo(mongoDB)
	notificationRepo := appmongo.NewNotificationRepo(mongoDB)
	thingESRepo := es.NewThingRepo(es.Client)

	// 事件总线与乐观更新覆盖层
	producer, err := kafka.NewEventProducer(cfg)
	if err != nil {
		return nil, err
	}
	overlay := feed.NewOverlayStore()

	// 外部元数据源
	booksClient := metadata.NewBooksClient()
	moviesClient := metadata.NewMoviesClient()
	placesClient := metadata.NewPlacesClient()
	linkFetcher := metadata.NewLinkFetcher()

	// 服务层
	userService := service.NewUserService(userRepo)
	userFollowService := service.NewUserFollowService(userFollowRepo, producer)
	smsService := service.NewSmsService()
	mediaService := service.NewMediaService()
	thingService := service.NewThingService(thingRepo, tagRepo, thingESRepo, booksClient, moviesClient, placesClient, linkFetcher, producer)
	interactionService := service.NewInteractionService(interactionRepo, thingRepo, tagRepo, userRepo, userFollowRepo, thingService, userService, mediaService, overlay, producer)
	feedService := service.NewFeedService(interactionRepo, thingRepo, userFollowService, userService, overlay)
	commentService := service.NewCommentService(commentRepo, interactionRepo, thingRepo, userRepo, userService, mediaService, producer)
	shareService := service.NewShareService(recommendationRepo, interactionRepo, userRepo, thingService, overlay, producer)
	notificationService := service.NewNotificationService(notificationRepo, userService)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService, userFollowService, smsService, mediaService),
		UserFollowHandler:   handler.NewUserFollowHandler(userFollowService),
		ThingHandler:        handler.NewThingHandler(thingService),
		InteractionHandler:  handler.NewInteractionHandler(interactionService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		ShareHandler:        handler.NewShareHandler(shareService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		MediaHandler:        handler.NewMediaHandler(mediaService),
		WsHandler:           handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, notificationRepo, userFollowRepo, thingRepo, thingESRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewFeedSnapshotJob(feedService),
		job.NewMediaCleanupJob(),
		job.NewOverlaySweepJob(overlay),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		LinkFetcher:  linkFetcher,
		Producer:     producer,
	}, nil
}
